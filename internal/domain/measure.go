package domain

import (
	"strconv"
)

// Measure é um valor numérico que distingue "ausente" de zero
type Measure struct {
	Value float64
	Valid bool
}

// Amount cria uma medida válida
func Amount(value float64) Measure {
	return Measure{Value: value, Valid: true}
}

// Add soma duas medidas; ausente + x = x
func (m Measure) Add(other Measure) Measure {
	switch {
	case !m.Valid:
		return other
	case !other.Valid:
		return m
	default:
		return Amount(m.Value + other.Value)
	}
}

// Or retorna o valor ou o padrão informado quando ausente
func (m Measure) Or(fallback float64) float64 {
	if !m.Valid {
		return fallback
	}
	return m.Value
}

func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, m.Value, 'f', -1, 64), nil
}

// Count é uma contagem inteira que distingue "ausente" de zero
type Count struct {
	Value int64
	Valid bool
}

// Quantity cria uma contagem válida
func Quantity(value int64) Count {
	return Count{Value: value, Valid: true}
}

func (c Count) Add(other Count) Count {
	switch {
	case !c.Valid:
		return other
	case !other.Valid:
		return c
	default:
		return Quantity(c.Value + other.Value)
	}
}

// Measure converte a contagem para uma medida preservando a ausência
func (c Count) Measure() Measure {
	if !c.Valid {
		return Measure{}
	}
	return Amount(float64(c.Value))
}

func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, c.Value, 10), nil
}
