package domain

import "strings"

// Table é a forma tabular não tipada trocada com o armazenamento de objetos
type Table struct {
	Columns []string
	Rows    [][]string
}

// Index retorna a posição da coluna (comparação sem diferenciar maiúsculas) ou -1
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(c, column) {
			return i
		}
	}
	return -1
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
