// Package aggregating executa agrupamentos e cálculos de crescimento sobre as tabelas canônicas.
// Todas as funções são puras: nunca alteram o Frame recebido.
package aggregating

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
)

type Dimension string

const (
	DimOutlet          Dimension = "outlet"
	DimBrand           Dimension = "brand"
	DimYear            Dimension = "year"
	DimMonth           Dimension = "month"
	DimDay             Dimension = "day"
	DimCenter          Dimension = "center"
	DimServiceType     Dimension = "service_type"
	DimCategory        Dimension = "category"
	DimBusinessUnit    Dimension = "business_unit"
	DimItemCategory    Dimension = "item_category"
	DimItemSubcategory Dimension = "item_subcategory"
)

type Metric string

const (
	MetricSales        Metric = "sales"
	MetricBills        Metric = "bills"
	MetricTransactions Metric = "transactions"
	MetricQuantity     Metric = "quantity"
)

var (
	ErrUnknownDimension    = errors.New("unknown dimension")
	ErrUnknownMetric       = errors.New("unknown metric")
	ErrInsufficientPeriods = errors.New("at least two periods are required")
)

// Fact é uma linha do Frame; dimensões vazias não participam de agrupamentos por elas
type Fact struct {
	Dims    map[Dimension]string
	Metrics map[Metric]domain.Measure
	Year    int
	Month   domain.Month
}

// Frame é a visão tabular sobre a qual todas as consultas operam
type Frame struct {
	dimensions []Dimension
	metrics    []Metric
	facts      []Fact
}

var (
	salesDimensions    = []Dimension{DimOutlet, DimBrand, DimYear, DimMonth, DimDay}
	serviceDimensions  = []Dimension{DimCenter, DimServiceType, DimCategory, DimItemCategory, DimBusinessUnit, DimItemSubcategory, DimYear}
	categoryDimensions = []Dimension{DimBusinessUnit, DimItemCategory}
)

func FromSales(records domain.SalesTable) Frame {
	facts := make([]Fact, 0, len(records))
	for _, r := range records {
		day := ""
		if r.Day != nil {
			day = strconv.Itoa(*r.Day)
		}

		facts = append(facts, Fact{
			Dims: map[Dimension]string{
				DimOutlet: r.OutletName,
				DimBrand:  r.Brand,
				DimYear:   strconv.Itoa(r.Year),
				DimMonth:  r.Month.String(), // vazio para meses não reconhecidos
				DimDay:    day,
			},
			Metrics: map[Metric]domain.Measure{
				MetricSales: r.MTDSales,
				MetricBills: r.MTDBills.Measure(),
			},
			Year:  r.Year,
			Month: r.Month,
		})
	}

	return Frame{dimensions: salesDimensions, metrics: []Metric{MetricSales, MetricBills}, facts: facts}
}

func FromServices(records domain.ServiceTable) Frame {
	facts := make([]Fact, 0, len(records))
	for _, r := range records {
		facts = append(facts, Fact{
			Dims: map[Dimension]string{
				DimCenter:          r.CenterName,
				DimServiceType:     r.ServiceType,
				DimCategory:        r.Category,
				DimItemCategory:    r.ItemCategory,
				DimBusinessUnit:    r.BusinessUnit,
				DimItemSubcategory: r.ItemSubcategory,
				DimYear:            strconv.Itoa(r.Year),
			},
			Metrics: map[Metric]domain.Measure{
				MetricSales:        r.TotalSales,
				MetricTransactions: r.TransactionCount.Measure(),
			},
			Year: r.Year,
		})
	}

	return Frame{dimensions: serviceDimensions, metrics: []Metric{MetricSales, MetricTransactions}, facts: facts}
}

func FromCategories(records domain.CategoryTable) Frame {
	facts := make([]Fact, 0, len(records))
	for _, r := range records {
		facts = append(facts, Fact{
			Dims: map[Dimension]string{
				DimBusinessUnit: r.BusinessUnit,
				DimItemCategory: r.ItemCategory,
			},
			Metrics: map[Metric]domain.Measure{
				MetricSales:    r.TotalSales,
				MetricQuantity: r.TotalQuantity.Measure(),
			},
		})
	}

	return Frame{dimensions: categoryDimensions, metrics: []Metric{MetricSales, MetricQuantity}, facts: facts}
}

func (f Frame) Len() int {
	return len(f.facts)
}

func (f Frame) Dimensions() []Dimension {
	return append([]Dimension(nil), f.dimensions...)
}

func (f Frame) hasDimension(dim Dimension) bool {
	for _, d := range f.dimensions {
		if d == dim {
			return true
		}
	}
	return false
}

func (f Frame) hasMetric(metric Metric) bool {
	for _, m := range f.metrics {
		if m == metric {
			return true
		}
	}
	return false
}

func (f Frame) validate(groupBy []Dimension, metric Metric) error {
	for _, dim := range groupBy {
		if !f.hasDimension(dim) {
			return fmt.Errorf("%w: %s", ErrUnknownDimension, dim)
		}
	}
	if metric != "" && !f.hasMetric(metric) {
		return fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
	}
	return nil
}

// where devolve um novo Frame com os fatos aceitos pelo predicado
func (f Frame) where(keep func(Fact) bool) Frame {
	facts := make([]Fact, 0, len(f.facts))
	for _, fact := range f.facts {
		if keep(fact) {
			facts = append(facts, fact)
		}
	}
	return Frame{dimensions: f.dimensions, metrics: f.metrics, facts: facts}
}

// InPeriod restringe o Frame a um ano ou a um mês específico
func (f Frame) InPeriod(period domain.Period) Frame {
	return f.where(func(fact Fact) bool {
		return period.Contains(fact.Year, fact.Month)
	})
}

// Values lista os valores distintos de uma dimensão em ordem canônica
func (f Frame) Values(dim Dimension) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, fact := range f.facts {
		v := fact.Dims[dim]
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	sort.Slice(values, func(i, j int) bool {
		return compareValues(dim, values[i], values[j]) < 0
	})
	return values
}

// Years lista os anos presentes em ordem crescente
func (f Frame) Years() []int {
	years := make([]int, 0)
	for _, v := range f.Values(DimYear) {
		if year, err := strconv.Atoi(v); err == nil {
			years = append(years, year)
		}
	}
	return years
}

// Filters são restrições simples chave=valor; vazio ou "All" significa sem restrição
type Filters map[Dimension]string

const AllValues = "All"

// Active retorna apenas as restrições efetivas
func (fl Filters) Active() Filters {
	active := make(Filters, len(fl))
	for dim, value := range fl {
		value = strings.TrimSpace(value)
		if value == "" || strings.EqualFold(value, AllValues) {
			continue
		}
		active[dim] = value
	}
	return active
}

// Signature é uma representação estável dos filtros efetivos, usada como chave de memo
func (fl Filters) Signature() string {
	active := fl.Active()
	parts := make([]string, 0, len(active))
	for dim, value := range active {
		parts = append(parts, string(dim)+"="+value)
	}
	sort.Strings(parts)
	return strings.Join(parts, "&")
}

// Filter aplica os filtros efetivos; a comparação ignora maiúsculas
func Filter(frame Frame, filters Filters) (Frame, error) {
	active := filters.Active()
	for dim := range active {
		if !frame.hasDimension(dim) {
			return Frame{}, fmt.Errorf("%w: %s", ErrUnknownDimension, dim)
		}
	}
	if len(active) == 0 {
		return frame, nil
	}

	return frame.where(func(fact Fact) bool {
		for dim, value := range active {
			if !strings.EqualFold(fact.Dims[dim], value) {
				return false
			}
		}
		return true
	}), nil
}

// compareValues ordena meses pelo calendário, ano e dia numericamente e o resto lexicograficamente
func compareValues(dim Dimension, a, b string) int {
	switch dim {
	case DimMonth:
		ma, _ := domain.ParseMonth(a)
		mb, _ := domain.ParseMonth(b)
		if ma != mb {
			return int(ma) - int(mb)
		}
	case DimYear, DimDay:
		na, errA := strconv.Atoi(a)
		nb, errB := strconv.Atoi(b)
		if errA == nil && errB == nil && na != nb {
			return na - nb
		}
	}
	return strings.Compare(a, b)
}

func compareKeys(dims []Dimension, a, b []string) int {
	for i, dim := range dims {
		if c := compareValues(dim, a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}
