package normalizing

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// placeholders são tratados como valor ausente
var placeholders = map[string]struct{}{
	"":     {},
	"-":    {},
	"--":   {},
	"na":   {},
	"n/a":  {},
	"#n/a": {},
	"nan":  {},
	"null": {},
	"nil":  {},
	"none": {},
}

func isBlank(value string) bool {
	_, ok := placeholders[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// cleanText remove espaços nas pontas e colapsa espaços internos
func cleanText(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// parseAmount remove símbolos de moeda e separadores, mantendo dígitos e o ponto decimal.
// Valores negativos, com mais de um ponto ou sem dígitos são considerados ausentes.
func parseAmount(value string) (float64, bool) {
	if isBlank(value) || strings.ContainsAny(value, "-(") {
		return 0, false
	}

	runes := []rune(value)
	var b strings.Builder
	for i, r := range runes {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' && i+1 < len(runes) && unicode.IsDigit(runes[i+1]) && !abbreviationDot(runes, i, b.Len()):
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if digits == "" || strings.Count(digits, ".") > 1 {
		return 0, false
	}

	amount, err := strconv.ParseFloat(digits, 64)
	if err != nil || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return 0, false
	}

	return amount, true
}

// abbreviationDot identifica o ponto de prefixos como "Rs." e "INR.", que vem
// depois de uma letra e antes de qualquer dígito
func abbreviationDot(runes []rune, i, written int) bool {
	return written == 0 && i > 0 && unicode.IsLetter(runes[i-1])
}

// parseCount exige um valor inteiro ("12" ou "12.0")
func parseCount(value string) (int64, bool) {
	amount, ok := parseAmount(value)
	if !ok || amount != math.Trunc(amount) || amount > math.MaxInt64/2 {
		return 0, false
	}
	return int64(amount), true
}

// parseYear aceita "2023", "2023.0" e "FY2023"
func parseYear(value string) (int, bool) {
	year, ok := parseCount(value)
	if !ok || year < 1900 || year > 2999 {
		return 0, false
	}
	return int(year), true
}

func parseDay(value string) (int, bool) {
	day, ok := parseCount(value)
	if !ok || day < 1 || day > 31 {
		return 0, false
	}
	return int(day), true
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
