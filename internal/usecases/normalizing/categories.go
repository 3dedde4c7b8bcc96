package normalizing

import (
	"sort"

	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
)

var categoryColumns = []columnSpec{
	{field: fieldBusinessUnit, required: true, aliases: []string{"businessunit", "bu"}},
	{field: fieldItemCategory, required: true, aliases: []string{"itemcategory", "category"}},
	{field: fieldTotalSales, required: true, aliases: []string{"totalsales", "sales"}},
	{field: fieldTotalQuantity, aliases: []string{"totalquantity", "quantity", "qty"}},
}

// CategoryColumns é a ordem canônica das colunas do relatório de categorias
var CategoryColumns = []string{fieldBusinessUnit, fieldItemCategory, fieldTotalSales, fieldTotalQuantity}

// NormalizeCategories converte o relatório de categorias por unidade de negócio
func NormalizeCategories(table *domain.Table, opts Options) (domain.CategoryTable, *Report, error) {
	report := newReport(KindCategories, opts.Source)

	columns, err := resolveColumns(table, categoryColumns, opts.Source)
	if err != nil {
		return nil, report, err
	}

	records := make([]domain.CategoryRecord, 0, len(table.Rows))

	for i, row := range table.Rows {
		report.RowsRead++
		line := i + 2

		blank := ""
		for _, field := range []string{fieldBusinessUnit, fieldItemCategory} {
			if isBlank(columns.cell(row, field)) {
				blank = field
				break
			}
		}
		if blank != "" {
			report.skip(line, blank, reasonMissingValue)
			continue
		}

		record := domain.CategoryRecord{
			BusinessUnit: cleanText(columns.cell(row, fieldBusinessUnit)),
			ItemCategory: cleanText(columns.cell(row, fieldItemCategory)),
		}

		if sales, ok := parseAmount(columns.cell(row, fieldTotalSales)); ok {
			record.TotalSales = domain.Amount(sales)
		} else {
			report.missing(fieldTotalSales)
		}

		if quantity, ok := parseCount(columns.cell(row, fieldTotalQuantity)); ok {
			record.TotalQuantity = domain.Quantity(quantity)
		} else {
			report.missing(fieldTotalQuantity)
		}

		records = append(records, record)
	}

	result := MergeCategories(records)
	report.MergedDuplicates = len(records) - len(result)
	report.RowsKept = len(result)

	return result, report, nil
}

func MergeCategories(records []domain.CategoryRecord) domain.CategoryTable {
	byKey := make(map[string]int, len(records))
	merged := make(domain.CategoryTable, 0, len(records))

	for _, record := range records {
		key := record.Key()
		if i, ok := byKey[key]; ok {
			merged[i].TotalSales = merged[i].TotalSales.Add(record.TotalSales)
			merged[i].TotalQuantity = merged[i].TotalQuantity.Add(record.TotalQuantity)
			continue
		}
		byKey[key] = len(merged)
		merged = append(merged, record)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Key() < merged[j].Key()
	})

	return merged
}

func CategoriesToTable(records domain.CategoryTable) *domain.Table {
	table := &domain.Table{
		Columns: append([]string(nil), CategoryColumns...),
		Rows:    make([][]string, 0, len(records)),
	}

	for _, r := range records {
		table.Rows = append(table.Rows, []string{
			r.BusinessUnit,
			r.ItemCategory,
			encodeMeasure(r.TotalSales),
			encodeCount(r.TotalQuantity),
		})
	}

	return table
}
