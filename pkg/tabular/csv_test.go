package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		columns []string
		rows    [][]string
	}{
		{
			name:    "Vírgula com BOM e linhas em branco",
			input:   "\xEF\xBB\xBFSALON NAMES,BRAND,Year\n\nT NAGAR, Naturals ,2023\n,,\n",
			columns: []string{"SALON NAMES", "BRAND", "Year"},
			rows:    [][]string{{"T NAGAR", "Naturals", "2023"}},
		},
		{
			name:    "Ponto e vírgula detectado automaticamente",
			input:   "Center Name;Total_Sales\nADYAR;\"1,500\"\n",
			columns: []string{"Center Name", "Total_Sales"},
			rows:    [][]string{{"ADYAR", "1,500"}},
		},
		{
			name:    "Linha curta é completada",
			input:   "a,b,c\n1\n",
			columns: []string{"a", "b", "c"},
			rows:    [][]string{{"1", "", ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.columns, table.Columns)
			assert.Equal(t, tt.rows, table.Rows)
		})
	}
}

func TestParse_EmptyExport(t *testing.T) {
	_, err := Parse([]byte("\n \n"))
	assert.ErrorIs(t, err, domain.ErrEmptyExport)
}

func TestWriteThenRead(t *testing.T) {
	table := &domain.Table{
		Columns: []string{"outlet_name", "mtd_sales"},
		Rows:    [][]string{{"T NAGAR", "150000"}, {"ANNA NAGAR, EAST", ""}},
	}

	var buffer bytes.Buffer
	require.NoError(t, Write(&buffer, table))

	decoded, err := Read(strings.NewReader(buffer.String()))
	require.NoError(t, err)
	assert.Equal(t, table, decoded)
}
