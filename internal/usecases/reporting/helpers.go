package reporting

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
	"github.com/vfg2006/outlet-dashboard-api/internal/usecases/aggregating"
	"github.com/vfg2006/outlet-dashboard-api/pkg/utils"
)

// salesFilters valida e canoniza os filtros da visão geral
func salesFilters(query SalesQuery) (aggregating.Filters, error) {
	filters := aggregating.Filters{
		aggregating.DimYear:  query.Year,
		aggregating.DimBrand: query.Brand,
		aggregating.DimMonth: query.Month,
	}.Active()

	if text, ok := filters[aggregating.DimYear]; ok {
		year, err := parseYear(text)
		if err != nil {
			return nil, err
		}
		filters[aggregating.DimYear] = strconv.Itoa(year)
	}

	if text, ok := filters[aggregating.DimMonth]; ok {
		month, valid := domain.ParseMonth(text)
		if !valid {
			return nil, fmt.Errorf("%w: mês inválido %q", domain.ErrInvalidPeriod, text)
		}
		filters[aggregating.DimMonth] = month.String()
	}

	return filters, nil
}

func parseYear(text string) (int, error) {
	period, err := domain.ParsePeriod(text)
	if err != nil {
		return 0, err
	}
	if period.Month.Valid() {
		return 0, fmt.Errorf("%w: esperado apenas o ano, recebido %q", domain.ErrInvalidPeriod, text)
	}
	return period.Year, nil
}

// growthPeriods resolve o par pedido; base vazia usa o primeiro ano e comparação vazia o último
func growthPeriods(query GrowthQuery, years []int) (domain.Period, domain.Period, error) {
	base := domain.YearPeriod(years[0])
	compare := domain.YearPeriod(years[len(years)-1])

	var err error
	if text := strings.TrimSpace(query.Base); text != "" {
		if base, err = domain.ParsePeriod(text); err != nil {
			return base, compare, err
		}
	}
	if text := strings.TrimSpace(query.Compare); text != "" {
		if compare, err = domain.ParsePeriod(text); err != nil {
			return base, compare, err
		}
	}

	if !base.Before(compare) {
		return base, compare, fmt.Errorf("%w: %s deve ser anterior a %s", domain.ErrInvalidPeriod, base.Label(), compare.Label())
	}
	if base.Month.Valid() != compare.Month.Valid() {
		return base, compare, fmt.Errorf("%w: %s e %s têm granularidades diferentes", domain.ErrInvalidPeriod, base.Label(), compare.Label())
	}

	return base, compare, nil
}

// serviceMetrics combina vendas e transações por dimensão, ordenando por vendas
func serviceMetrics(frame aggregating.Frame, dim aggregating.Dimension) ([]domain.ServiceMetrics, error) {
	groupBy := []aggregating.Dimension{dim}

	sales, err := aggregating.GroupSum(frame, groupBy, aggregating.MetricSales)
	if err != nil {
		return nil, err
	}
	transactions, err := aggregating.GroupSum(frame, groupBy, aggregating.MetricTransactions)
	if err != nil {
		return nil, err
	}

	metrics := make([]domain.ServiceMetrics, 0, len(sales.Rows))
	for _, row := range sales.Rows {
		item := domain.ServiceMetrics{Name: row.Key[0], TotalSales: row.Value.Or(0)}
		if count, ok := transactions.Lookup(row.Key...); ok {
			item.TransactionCount = count.Or(0)
		}
		if item.TransactionCount > 0 {
			average := utils.RoundWithTwoDecimalPlace(item.TotalSales / item.TransactionCount)
			item.AverageTransaction = &average
		}
		metrics = append(metrics, item)
	}

	sort.SliceStable(metrics, func(i, j int) bool {
		if metrics[i].TotalSales != metrics[j].TotalSales {
			return metrics[i].TotalSales > metrics[j].TotalSales
		}
		return metrics[i].Name < metrics[j].Name
	})
	return metrics, nil
}

func namedValues(table *aggregating.Table) []domain.NamedValue {
	values := make([]domain.NamedValue, 0, len(table.Rows))
	for _, row := range table.Rows {
		values = append(values, domain.NamedValue{Name: row.Label(), Value: row.Value.Or(0)})
	}
	return values
}

func filterLabels(filters aggregating.Filters) map[string]string {
	labels := make(map[string]string, len(filters))
	for dim, value := range filters {
		labels[string(dim)] = value
	}
	return labels
}

func yearPeriods(years []int) []domain.Period {
	periods := make([]domain.Period, 0, len(years))
	for _, year := range years {
		periods = append(periods, domain.YearPeriod(year))
	}
	return periods
}

func uniqueInts(values []int) []int {
	unique := make([]int, 0, len(values))
	for i, v := range values {
		if i > 0 && values[i-1] == v {
			continue
		}
		unique = append(unique, v)
	}
	return unique
}

// union junta listas já ordenadas sem repetir valores
func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	values := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}
