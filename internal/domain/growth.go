package domain

import (
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PercentState descreve se um percentual de crescimento é calculável
type PercentState int

const (
	// PercentUndefined: base zero e comparação zero (ou base não positiva)
	PercentUndefined PercentState = iota
	PercentDefined
	// PercentUnbounded: base zero seguida de valor não nulo
	PercentUnbounded
)

func (s PercentState) String() string {
	switch s {
	case PercentDefined:
		return "defined"
	case PercentUnbounded:
		return "unbounded"
	default:
		return "undefined"
	}
}

// NotAvailableLabel é exibido sempre que o percentual não é definido
const NotAvailableLabel = "N/A"

// Percent é um resultado etiquetado; nunca carrega NaN ou Inf
type Percent struct {
	value float64
	state PercentState
}

func DefinedPercent(value float64) Percent {
	return Percent{value: value, state: PercentDefined}
}

func UndefinedPercent() Percent {
	return Percent{state: PercentUndefined}
}

func UnboundedPercent() Percent {
	return Percent{state: PercentUnbounded}
}

// Value retorna o percentual e se ele é definido
func (p Percent) Value() (float64, bool) {
	return p.value, p.state == PercentDefined
}

func (p Percent) State() PercentState {
	return p.state
}

func (p Percent) Defined() bool {
	return p.state == PercentDefined
}

// String formata com duas casas decimais ou "N/A"
func (p Percent) String() string {
	if p.state != PercentDefined {
		return NotAvailableLabel
	}
	return strconv.FormatFloat(p.value, 'f', 2, 64) + "%"
}

func (p Percent) MarshalJSON() ([]byte, error) {
	if p.state != PercentDefined {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, p.value, 'f', -1, 64), nil
}

// Period é um ano inteiro (Month == MonthUnknown) ou um par ano/mês
type Period struct {
	Year  int   `json:"year"`
	Month Month `json:"-"`
}

func YearPeriod(year int) Period {
	return Period{Year: year}
}

func MonthPeriod(year int, month Month) Period {
	return Period{Year: year, Month: month}
}

// Label retorna "2023" ou "March 2023"
func (p Period) Label() string {
	if p.Month.Valid() {
		return fmt.Sprintf("%s %d", p.Month, p.Year)
	}
	return strconv.Itoa(p.Year)
}

// Before ordena períodos cronologicamente (ano e depois mês)
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// Contains indica se uma linha do ano/mês informado pertence ao período
func (p Period) Contains(year int, month Month) bool {
	if p.Year != year {
		return false
	}
	return !p.Month.Valid() || p.Month == month
}

// MarshalJSON usa o rótulo; o período vazio vira null
func (p Period) MarshalJSON() ([]byte, error) {
	if p.Year == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(p.Label())
}

// ParsePeriod aceita "2023" ou "2023-03"/"2023-March"
func ParsePeriod(value string) (Period, error) {
	text := strings.TrimSpace(value)
	yearText, monthText, hasMonth := strings.Cut(text, "-")

	year, err := strconv.Atoi(strings.TrimSpace(yearText))
	if err != nil || year < 1900 || year > 2999 {
		return Period{}, fmt.Errorf("%w: período inválido %q", ErrInvalidPeriod, value)
	}

	if !hasMonth {
		return YearPeriod(year), nil
	}

	month, ok := ParseMonth(monthText)
	if !ok {
		return Period{}, fmt.Errorf("%w: mês inválido %q", ErrInvalidPeriod, value)
	}

	return MonthPeriod(year, month), nil
}

// GrowthResult é derivado a cada consulta e nunca persistido
type GrowthResult struct {
	DimensionKey  []string `json:"dimension_key"`
	BasePeriod    Period   `json:"base_period"`
	ComparePeriod Period   `json:"compare_period"`
	BaseValue     float64  `json:"base_value"`
	CompareValue  float64  `json:"compare_value"`
	GrowthAmount  float64  `json:"growth_amount"`
	GrowthPercent Percent  `json:"growth_percent"`
}

// MarshalJSON inclui o estado e o rótulo formatado do percentual
func (g GrowthResult) MarshalJSON() ([]byte, error) {
	type alias GrowthResult
	return json.Marshal(struct {
		alias
		PercentState string `json:"growth_percent_state"`
		PercentLabel string `json:"growth_percent_label"`
	}{
		alias:        alias(g),
		PercentState: g.GrowthPercent.State().String(),
		PercentLabel: g.GrowthPercent.String(),
	})
}
