// Package normalizing converte exportações brutas em tabelas canônicas
package normalizing

import (
	"sort"
	"strconv"
	"strings"

	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
)

const (
	fieldOutlet   = "outlet_name"
	fieldBrand    = "brand"
	fieldYear     = "year"
	fieldMonth    = "month"
	fieldDay      = "day"
	fieldMTDSales = "mtd_sales"
	fieldMTDBills = "mtd_bills"
)

var salesColumns = []columnSpec{
	{field: fieldOutlet, required: true, aliases: []string{"outletname", "salonnames", "salonname", "outlet", "salon", "storename", "store", "branch"}},
	{field: fieldBrand, required: true, aliases: []string{"brand", "brandname"}},
	{field: fieldYear, required: true, aliases: yearAliases},
	{field: fieldMonth, required: true, aliases: []string{"month", "monthname", "mon"}},
	{field: fieldDay, aliases: []string{"day", "daysales", "dayofmonth"}},
	{field: fieldMTDSales, required: true, aliases: []string{"mtdsales", "sales", "netsales", "totalsales", "salesamount"}},
	{field: fieldMTDBills, required: true, aliases: []string{"mtdbills", "bills", "billcount", "noofbills", "totalbills"}},
}

// SalesColumns é a ordem canônica das colunas de vendas
var SalesColumns = []string{fieldOutlet, fieldBrand, fieldYear, fieldMonth, fieldDay, fieldMTDSales, fieldMTDBills}

func normalizeOutlet(value string) string {
	return strings.ToUpper(cleanText(value))
}

// NormalizeSales converte a exportação de vendas na tabela canônica.
// Colunas obrigatórias ausentes abortam o arquivo; linhas inválidas são descartadas e contadas.
func NormalizeSales(table *domain.Table, opts Options) (domain.SalesTable, *Report, error) {
	report := newReport(KindSales, opts.Source)

	columns, err := resolveColumns(table, salesColumns, opts.Source)
	if err != nil {
		return nil, report, err
	}

	known := opts.knownOutlets()
	records := make([]domain.SalesRecord, 0, len(table.Rows))

	for i, row := range table.Rows {
		report.RowsRead++
		line := i + 2 // cabeçalho é a linha 1

		record, ok := parseSalesRow(row, columns, line, report)
		if !ok {
			continue
		}

		if known != nil && !known[record.OutletName] {
			report.skip(line, fieldOutlet, reasonUnknownOutlet)
			continue
		}

		records = append(records, record)
	}

	result := MergeSales(records)
	report.MergedDuplicates = len(records) - len(result)
	report.RowsKept = len(result)

	return result, report, nil
}

func parseSalesRow(row []string, columns columnIndex, line int, report *Report) (domain.SalesRecord, bool) {
	record := domain.SalesRecord{}

	for _, field := range []string{fieldOutlet, fieldBrand, fieldYear, fieldMonth} {
		if isBlank(columns.cell(row, field)) {
			report.skip(line, field, reasonMissingValue)
			return record, false
		}
	}

	record.OutletName = normalizeOutlet(columns.cell(row, fieldOutlet))
	record.Brand = cleanText(columns.cell(row, fieldBrand))

	year, ok := parseYear(columns.cell(row, fieldYear))
	if !ok {
		report.skip(line, fieldYear, reasonInvalidYear)
		return record, false
	}
	record.Year = year

	rawMonth := cleanText(columns.cell(row, fieldMonth))
	if month, ok := domain.ParseMonth(rawMonth); ok {
		record.Month = month
	} else {
		// Mantida para agregados anuais, fora dos agrupamentos por mês
		record.RawMonth = rawMonth
		report.UnknownMonths++
	}

	if rawDay := columns.cell(row, fieldDay); !isBlank(rawDay) {
		if day, ok := parseDay(rawDay); ok {
			record.Day = &day
		} else {
			report.InvalidDays++
		}
	}

	if sales, ok := parseAmount(columns.cell(row, fieldMTDSales)); ok {
		record.MTDSales = domain.Amount(sales)
	} else {
		report.missing(fieldMTDSales)
	}

	if bills, ok := parseCount(columns.cell(row, fieldMTDBills)); ok {
		record.MTDBills = domain.Quantity(bills)
	} else {
		report.missing(fieldMTDBills)
	}

	return record, true
}

// MergeSales funde linhas com a mesma chave somando as medidas e ordena a tabela
func MergeSales(records []domain.SalesRecord) domain.SalesTable {
	byKey := make(map[string]int, len(records))
	merged := make(domain.SalesTable, 0, len(records))

	for _, record := range records {
		key := record.Key()
		if i, ok := byKey[key]; ok {
			merged[i].MTDSales = merged[i].MTDSales.Add(record.MTDSales)
			merged[i].MTDBills = merged[i].MTDBills.Add(record.MTDBills)
			continue
		}
		byKey[key] = len(merged)
		merged = append(merged, record)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return lessSales(merged[i], merged[j])
	})

	return merged
}

func lessSales(a, b domain.SalesRecord) bool {
	if a.OutletName != b.OutletName {
		return a.OutletName < b.OutletName
	}
	if a.Brand != b.Brand {
		return a.Brand < b.Brand
	}
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	if c := compareMonth(a.Month, a.RawMonth, b.Month, b.RawMonth); c != 0 {
		return c < 0
	}
	return dayValue(a.Day) < dayValue(b.Day)
}

// compareMonth ordena meses pelo calendário; meses não reconhecidos vão ao final
func compareMonth(a domain.Month, rawA string, b domain.Month, rawB string) int {
	switch {
	case a.Valid() && b.Valid():
		return int(a) - int(b)
	case a.Valid():
		return -1
	case b.Valid():
		return 1
	default:
		return strings.Compare(rawA, rawB)
	}
}

func dayValue(day *int) int {
	if day == nil {
		return 0
	}
	return *day
}

// SalesToTable codifica a tabela canônica com os nomes de coluna canônicos
func SalesToTable(records domain.SalesTable) *domain.Table {
	table := &domain.Table{
		Columns: append([]string(nil), SalesColumns...),
		Rows:    make([][]string, 0, len(records)),
	}

	for _, r := range records {
		day := ""
		if r.Day != nil {
			day = strconv.Itoa(*r.Day)
		}

		table.Rows = append(table.Rows, []string{
			r.OutletName,
			r.Brand,
			strconv.Itoa(r.Year),
			r.MonthText(),
			day,
			encodeMeasure(r.MTDSales),
			encodeCount(r.MTDBills),
		})
	}

	return table
}

func encodeMeasure(m domain.Measure) string {
	if !m.Valid {
		return ""
	}
	return formatAmount(m.Value)
}

func encodeCount(c domain.Count) string {
	if !c.Valid {
		return ""
	}
	return strconv.FormatInt(c.Value, 10)
}
