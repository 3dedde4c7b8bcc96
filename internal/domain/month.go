// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import (
	"math"
	"strconv"
	"strings"
)

// Month representa um mês do calendário; MonthUnknown indica texto não reconhecido
type Month int

const (
	MonthUnknown Month = iota
	January
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

var monthNames = [...]string{
	"",
	"January",
	"February",
	"March",
	"April",
	"May",
	"June",
	"July",
	"August",
	"September",
	"October",
	"November",
	"December",
}

// monthAliases mapeia abreviações e nomes completos (em minúsculas) para o mês canônico
var monthAliases = func() map[string]Month {
	aliases := map[string]Month{"sept": September}
	for m := January; m <= December; m++ {
		name := strings.ToLower(monthNames[m])
		aliases[name] = m
		aliases[name[:3]] = m
	}
	return aliases
}()

func (m Month) Valid() bool {
	return m >= January && m <= December
}

func (m Month) String() string {
	if !m.Valid() {
		return ""
	}
	return monthNames[m]
}

// Months retorna os 12 meses na ordem do calendário
func Months() []Month {
	months := make([]Month, 0, 12)
	for m := January; m <= December; m++ {
		months = append(months, m)
	}
	return months
}

// ParseMonth normaliza nomes, abreviações ("Mar", "Sept") e números ("03", "3.0") para o mês canônico
func ParseMonth(value string) (Month, bool) {
	text := strings.ToLower(strings.TrimSpace(value))
	text = strings.TrimSuffix(text, ".")
	if text == "" {
		return MonthUnknown, false
	}

	if m, ok := monthAliases[text]; ok {
		return m, true
	}

	n, err := strconv.ParseFloat(text, 64)
	if err != nil || n != math.Trunc(n) || n < 1 || n > 12 {
		return MonthUnknown, false
	}

	return Month(int(n)), true
}
