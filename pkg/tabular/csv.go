// Package tabular lê e escreve tabelas delimitadas com cabeçalho
package tabular

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	delimiters = []rune{',', ';', '\t', '|'}
)

// Read lê todo o conteúdo e devolve a tabela com cabeçalho e linhas não vazias
func Read(r io.Reader) (*domain.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler exportação")
	}
	return Parse(data)
}

// Parse detecta o delimitador, remove BOM, descarta linhas em branco e completa linhas curtas
func Parse(data []byte) (*domain.Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao interpretar CSV")
	}

	table := &domain.Table{}
	for _, record := range records {
		if isBlankRecord(record) {
			continue
		}

		cells := make([]string, len(record))
		for i, cell := range record {
			cells[i] = strings.TrimSpace(cell)
		}

		if table.Columns == nil {
			table.Columns = cells
			continue
		}

		if len(cells) < len(table.Columns) {
			padded := make([]string, len(table.Columns))
			copy(padded, cells)
			cells = padded
		}
		table.Rows = append(table.Rows, cells)
	}

	if table.Columns == nil {
		return nil, domain.ErrEmptyExport
	}

	return table, nil
}

// Write serializa a tabela com vírgula como delimitador
func Write(w io.Writer, table *domain.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Columns); err != nil {
		return errors.Wrap(err, "erro ao escrever cabeçalho")
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return errors.Wrap(err, "erro ao escrever linhas")
	}
	return nil
}

// Encode é um atalho de Write para um buffer em memória
func Encode(table *domain.Table) ([]byte, error) {
	var buffer bytes.Buffer
	if err := Write(&buffer, table); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// sniffDelimiter escolhe o delimitador mais frequente na primeira linha não vazia
func sniffDelimiter(data []byte) rune {
	var header string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			header = line
			break
		}
	}

	best, bestCount := ',', 0
	for _, d := range delimiters {
		if n := strings.Count(header, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
