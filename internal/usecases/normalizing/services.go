package normalizing

import (
	"sort"
	"strconv"

	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
)

const (
	fieldCenter           = "center_name"
	fieldServiceType      = "service_type"
	fieldCategory         = "category"
	fieldItemCategory     = "item_category"
	fieldBusinessUnit     = "business_unit"
	fieldItemSubcategory  = "item_subcategory"
	fieldTotalSales       = "total_sales"
	fieldTransactionCount = "transaction_count"
	fieldTotalQuantity    = "total_quantity"
)

var serviceColumns = []columnSpec{
	{field: fieldCenter, required: true, aliases: []string{"centername", "centrename", "center", "centre", "outlet", "outletname", "salonnames"}},
	{field: fieldServiceType, required: true, aliases: []string{"servicetype", "service", "servicecategory"}},
	{field: fieldCategory, required: true, aliases: []string{"category", "itemtype", "type"}},
	{field: fieldItemCategory, aliases: []string{"itemcategory"}},
	{field: fieldBusinessUnit, aliases: []string{"businessunit", "bu"}},
	{field: fieldItemSubcategory, aliases: []string{"itemsubcategory", "subcategory"}},
	{field: fieldYear, required: true, aliases: yearAliases},
	{field: fieldTotalSales, required: true, aliases: []string{"totalsales", "sales", "netsales", "amount"}},
	{field: fieldTransactionCount, required: true, aliases: []string{"transactioncount", "transactions", "txncount", "count"}},
}

// ServiceColumns é a ordem canônica das colunas de serviços
var ServiceColumns = []string{
	fieldCenter, fieldServiceType, fieldCategory, fieldItemCategory, fieldBusinessUnit,
	fieldItemSubcategory, fieldYear, fieldTotalSales, fieldTransactionCount,
}

// NormalizeServices converte a exportação de serviços na tabela canônica
func NormalizeServices(table *domain.Table, opts Options) (domain.ServiceTable, *Report, error) {
	report := newReport(KindServices, opts.Source)

	columns, err := resolveColumns(table, serviceColumns, opts.Source)
	if err != nil {
		return nil, report, err
	}

	known := opts.knownOutlets()
	records := make([]domain.ServiceRecord, 0, len(table.Rows))

	for i, row := range table.Rows {
		report.RowsRead++
		line := i + 2

		record, ok := parseServiceRow(row, columns, line, report)
		if !ok {
			continue
		}

		if known != nil && !known[record.CenterName] {
			report.skip(line, fieldCenter, reasonUnknownOutlet)
			continue
		}

		records = append(records, record)
	}

	result := MergeServices(records)
	report.MergedDuplicates = len(records) - len(result)
	report.RowsKept = len(result)

	return result, report, nil
}

func parseServiceRow(row []string, columns columnIndex, line int, report *Report) (domain.ServiceRecord, bool) {
	record := domain.ServiceRecord{}

	for _, field := range []string{fieldCenter, fieldServiceType, fieldCategory, fieldYear} {
		if isBlank(columns.cell(row, field)) {
			report.skip(line, field, reasonMissingValue)
			return record, false
		}
	}

	year, ok := parseYear(columns.cell(row, fieldYear))
	if !ok {
		report.skip(line, fieldYear, reasonInvalidYear)
		return record, false
	}

	record.CenterName = normalizeOutlet(columns.cell(row, fieldCenter))
	record.ServiceType = cleanText(columns.cell(row, fieldServiceType))
	record.Category = cleanText(columns.cell(row, fieldCategory))
	record.ItemCategory = optionalText(columns.cell(row, fieldItemCategory))
	record.BusinessUnit = optionalText(columns.cell(row, fieldBusinessUnit))
	record.ItemSubcategory = optionalText(columns.cell(row, fieldItemSubcategory))
	record.Year = year

	if sales, ok := parseAmount(columns.cell(row, fieldTotalSales)); ok {
		record.TotalSales = domain.Amount(sales)
	} else {
		report.missing(fieldTotalSales)
	}

	if count, ok := parseCount(columns.cell(row, fieldTransactionCount)); ok {
		record.TransactionCount = domain.Quantity(count)
	} else {
		report.missing(fieldTransactionCount)
	}

	return record, true
}

// optionalText trata placeholders como campo vazio
func optionalText(value string) string {
	if isBlank(value) {
		return ""
	}
	return cleanText(value)
}

// MergeServices funde linhas duplicadas e ordena pela chave canônica
func MergeServices(records []domain.ServiceRecord) domain.ServiceTable {
	byKey := make(map[string]int, len(records))
	merged := make(domain.ServiceTable, 0, len(records))

	for _, record := range records {
		key := record.Key()
		if i, ok := byKey[key]; ok {
			merged[i].TotalSales = merged[i].TotalSales.Add(record.TotalSales)
			merged[i].TransactionCount = merged[i].TransactionCount.Add(record.TransactionCount)
			continue
		}
		byKey[key] = len(merged)
		merged = append(merged, record)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Key() < b.Key()
	})

	return merged
}

func ServicesToTable(records domain.ServiceTable) *domain.Table {
	table := &domain.Table{
		Columns: append([]string(nil), ServiceColumns...),
		Rows:    make([][]string, 0, len(records)),
	}

	for _, r := range records {
		table.Rows = append(table.Rows, []string{
			r.CenterName,
			r.ServiceType,
			r.Category,
			r.ItemCategory,
			r.BusinessUnit,
			r.ItemSubcategory,
			strconv.Itoa(r.Year),
			encodeMeasure(r.TotalSales),
			encodeCount(r.TransactionCount),
		})
	}

	return table
}
