package normalizing

import (
	"strings"
	"unicode"

	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
)

// columnSpec descreve um campo canônico e os nomes de coluna aceitos, em ordem de prioridade
type columnSpec struct {
	field    string
	aliases  []string
	required bool
}

// columnIndex mapeia campo canônico → posição da coluna (-1 quando ausente)
type columnIndex map[string]int

var yearAliases = []string{"year", "yr", "fy", "financialyear"}

// canonicalHeader remove espaços, pontuação e diferenças de caixa ("SALON NAMES" → "salonnames")
func canonicalHeader(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(header) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// resolveColumns reconcilia o cabeçalho com os campos canônicos; a primeira alias presente vence
func resolveColumns(table *domain.Table, specs []columnSpec, source string) (columnIndex, error) {
	headers := make([]string, len(table.Columns))
	for i, column := range table.Columns {
		headers[i] = canonicalHeader(column)
	}

	claimed := make(map[int]bool)
	index := make(columnIndex, len(specs))

	for _, spec := range specs {
		index[spec.field] = -1

	aliases:
		for _, alias := range spec.aliases {
			for i, header := range headers {
				if header == alias && !claimed[i] {
					index[spec.field] = i
					claimed[i] = true
					break aliases
				}
			}
		}

		if spec.required && index[spec.field] < 0 {
			return nil, &domain.MissingFieldError{Source: source, Field: spec.field}
		}
	}

	return index, nil
}

// cell retorna o valor da coluna ou vazio quando a coluna não existe na linha
func (c columnIndex) cell(row []string, field string) string {
	i, ok := c[field]
	if !ok || i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
