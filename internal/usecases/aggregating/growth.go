package aggregating

import (
	"sort"
	"strings"

	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
)

// Growth calcula a variação absoluta e percentual entre base e comparação.
// Com base zero o percentual nunca é numérico: Unbounded se houve valor, Undefined caso contrário.
func Growth(base, compare float64) (float64, domain.Percent) {
	amount := compare - base

	switch {
	case base > 0:
		return amount, domain.DefinedPercent((compare/base - 1) * 100)
	case base == 0 && compare != 0:
		return amount, domain.UnboundedPercent()
	default:
		return amount, domain.UndefinedPercent()
	}
}

// GrowthBetween compara dois períodos por grupo. A junção é externa:
// um grupo ausente em um dos lados conta como zero naquele lado.
func GrowthBetween(frame Frame, metric Metric, groupBy []Dimension, base, compare domain.Period) ([]domain.GrowthResult, error) {
	baseTable, err := GroupSum(frame.InPeriod(base), groupBy, metric)
	if err != nil {
		return nil, err
	}

	compareTable, err := GroupSum(frame.InPeriod(compare), groupBy, metric)
	if err != nil {
		return nil, err
	}

	type pair struct {
		key           []string
		base, compare float64
	}

	pairs := make(map[string]*pair)
	order := make([]*pair, 0, len(baseTable.Rows))
	get := func(key []string) *pair {
		id := strings.Join(key, "\x1f")
		p, ok := pairs[id]
		if !ok {
			p = &pair{key: key}
			pairs[id] = p
			order = append(order, p)
		}
		return p
	}

	for _, row := range baseTable.Rows {
		get(row.Key).base = row.Value.Or(0)
	}
	for _, row := range compareTable.Rows {
		get(row.Key).compare = row.Value.Or(0)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return compareKeys(groupBy, order[i].key, order[j].key) < 0
	})

	results := make([]domain.GrowthResult, 0, len(order))
	for _, p := range order {
		amount, percent := Growth(p.base, p.compare)
		results = append(results, domain.GrowthResult{
			DimensionKey:  p.key,
			BasePeriod:    base,
			ComparePeriod: compare,
			BaseValue:     p.base,
			CompareValue:  p.compare,
			GrowthAmount:  amount,
			GrowthPercent: percent,
		})
	}

	return results, nil
}

// SeriesMode define como uma série de períodos é comparada
type SeriesMode int

const (
	// Consecutive compara cada período com o anterior
	Consecutive SeriesMode = iota
	// FixedBase compara apenas o primeiro com o último período
	FixedBase
)

// GrowthSeries ordena os períodos cronologicamente e calcula o crescimento conforme o modo
func GrowthSeries(frame Frame, metric Metric, groupBy []Dimension, periods []domain.Period, mode SeriesMode) ([]domain.GrowthResult, error) {
	ordered := uniquePeriods(periods)
	if len(ordered) < 2 {
		return nil, ErrInsufficientPeriods
	}

	if mode == FixedBase {
		return GrowthBetween(frame, metric, groupBy, ordered[0], ordered[len(ordered)-1])
	}

	results := make([]domain.GrowthResult, 0)
	for i := 1; i < len(ordered); i++ {
		step, err := GrowthBetween(frame, metric, groupBy, ordered[i-1], ordered[i])
		if err != nil {
			return nil, err
		}
		results = append(results, step...)
	}
	return results, nil
}

func uniquePeriods(periods []domain.Period) []domain.Period {
	seen := make(map[domain.Period]struct{}, len(periods))
	ordered := make([]domain.Period, 0, len(periods))
	for _, p := range periods {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		ordered = append(ordered, p)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Before(ordered[j])
	})
	return ordered
}

// SortByGrowth ordena por percentual decrescente; percentuais não definidos vão ao final
func SortByGrowth(results []domain.GrowthResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		av, aok := a.GrowthPercent.Value()
		bv, bok := b.GrowthPercent.Value()
		if aok != bok {
			return aok
		}
		if aok && av != bv {
			return av > bv
		}
		if a.GrowthAmount != b.GrowthAmount {
			return a.GrowthAmount > b.GrowthAmount
		}
		return strings.Join(a.DimensionKey, "\x1f") < strings.Join(b.DimensionKey, "\x1f")
	})
}
