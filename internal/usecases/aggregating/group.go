package aggregating

import (
	"sort"
	"strings"

	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
)

// Row é um grupo do resultado; Key segue a ordem de Table.Dimensions
type Row struct {
	Key   []string       `json:"key"`
	Value domain.Measure `json:"value"`
}

// Label junta a chave para exibição ("T NAGAR / 2023")
func (r Row) Label() string {
	return strings.Join(r.Key, " / ")
}

// Table é o resultado de uma consulta agrupada
type Table struct {
	Dimensions []Dimension `json:"dimensions"`
	Metric     Metric      `json:"metric"`
	Rows       []Row       `json:"rows"`
}

// Lookup retorna a medida do grupo com a chave informada
func (t *Table) Lookup(key ...string) (domain.Measure, bool) {
	for _, row := range t.Rows {
		if equalKeys(row.Key, key) {
			return row.Value, true
		}
	}
	return domain.Measure{}, false
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type accumulator struct {
	key   []string
	sum   domain.Measure
	count int
	seen  map[string]struct{}
}

// groupFacts percorre os fatos que possuem todas as dimensões de agrupamento
func groupFacts(frame Frame, groupBy []Dimension, visit func(acc *accumulator, fact Fact)) []*accumulator {
	groups := make(map[string]*accumulator)
	order := make([]*accumulator, 0)

	for _, fact := range frame.facts {
		key := make([]string, len(groupBy))
		complete := true
		for i, dim := range groupBy {
			key[i] = fact.Dims[dim]
			if key[i] == "" {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}

		id := strings.Join(key, "\x1f")
		acc, ok := groups[id]
		if !ok {
			acc = &accumulator{key: key, seen: make(map[string]struct{})}
			groups[id] = acc
			order = append(order, acc)
		}
		visit(acc, fact)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return compareKeys(groupBy, order[i].key, order[j].key) < 0
	})
	return order
}

// GroupSum soma a métrica por grupo; valores ausentes não entram na soma
func GroupSum(frame Frame, groupBy []Dimension, metric Metric) (*Table, error) {
	if err := frame.validate(groupBy, metric); err != nil {
		return nil, err
	}

	groups := groupFacts(frame, groupBy, func(acc *accumulator, fact Fact) {
		acc.sum = acc.sum.Add(fact.Metrics[metric])
	})

	table := &Table{Dimensions: append([]Dimension(nil), groupBy...), Metric: metric, Rows: make([]Row, 0, len(groups))}
	for _, acc := range groups {
		table.Rows = append(table.Rows, Row{Key: acc.key, Value: acc.sum})
	}
	return table, nil
}

// GroupMean calcula a média dos valores presentes em cada grupo
func GroupMean(frame Frame, groupBy []Dimension, metric Metric) (*Table, error) {
	if err := frame.validate(groupBy, metric); err != nil {
		return nil, err
	}

	groups := groupFacts(frame, groupBy, func(acc *accumulator, fact Fact) {
		value := fact.Metrics[metric]
		if value.Valid {
			acc.sum = acc.sum.Add(value)
			acc.count++
		}
	})

	table := &Table{Dimensions: append([]Dimension(nil), groupBy...), Metric: metric, Rows: make([]Row, 0, len(groups))}
	for _, acc := range groups {
		mean := domain.Measure{}
		if acc.count > 0 {
			mean = domain.Amount(acc.sum.Value / float64(acc.count))
		}
		table.Rows = append(table.Rows, Row{Key: acc.key, Value: mean})
	}
	return table, nil
}

// GroupNUnique conta os valores distintos da dimensão alvo em cada grupo
func GroupNUnique(frame Frame, groupBy []Dimension, target Dimension) (*Table, error) {
	if err := frame.validate(append(append([]Dimension(nil), groupBy...), target), ""); err != nil {
		return nil, err
	}

	groups := groupFacts(frame, groupBy, func(acc *accumulator, fact Fact) {
		if v := fact.Dims[target]; v != "" {
			acc.seen[v] = struct{}{}
		}
	})

	table := &Table{Dimensions: append([]Dimension(nil), groupBy...), Rows: make([]Row, 0, len(groups))}
	for _, acc := range groups {
		table.Rows = append(table.Rows, Row{Key: acc.key, Value: domain.Amount(float64(len(acc.seen)))})
	}
	return table, nil
}

// Total soma a métrica em todo o Frame
func Total(frame Frame, metric Metric) domain.Measure {
	total := domain.Measure{}
	for _, fact := range frame.facts {
		total = total.Add(fact.Metrics[metric])
	}
	return total
}

// TopN ordena por valor decrescente (empates pela chave crescente, ausentes por último) e corta em n
func TopN(table *Table, n int) *Table {
	rows := append([]Row(nil), table.Rows...)
	SortByValue(rows)

	if n >= 0 && n < len(rows) {
		rows = rows[:n]
	}
	return &Table{Dimensions: table.Dimensions, Metric: table.Metric, Rows: rows}
}

// SortByValue ordena as linhas por valor decrescente de forma determinística
func SortByValue(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Value.Valid != b.Value.Valid {
			return a.Value.Valid
		}
		if a.Value.Valid && a.Value.Value != b.Value.Value {
			return a.Value.Value > b.Value.Value
		}
		return strings.Join(a.Key, "\x1f") < strings.Join(b.Key, "\x1f")
	})
}
