package aggregating

import "github.com/vfg2006/outlet-dashboard-api/internal/domain"

// PivotTable monta a matriz linha × coluna da métrica; combinações sem dados valem zero
func PivotTable(frame Frame, rowDim, colDim Dimension, metric Metric) (*domain.Matrix, error) {
	grouped, err := GroupSum(frame, []Dimension{rowDim, colDim}, metric)
	if err != nil {
		return nil, err
	}

	matrix := &domain.Matrix{
		RowDimension:    string(rowDim),
		ColumnDimension: string(colDim),
		Metric:          string(metric),
		Rows:            frame.Values(rowDim),
		Columns:         frame.Values(colDim),
	}

	rowIndex := indexOf(matrix.Rows)
	colIndex := indexOf(matrix.Columns)

	matrix.Cells = make([][]float64, len(matrix.Rows))
	for i := range matrix.Cells {
		matrix.Cells[i] = make([]float64, len(matrix.Columns))
	}

	for _, row := range grouped.Rows {
		matrix.Cells[rowIndex[row.Key[0]]][colIndex[row.Key[1]]] = row.Value.Or(0)
	}

	return matrix, nil
}

func indexOf(values []string) map[string]int {
	index := make(map[string]int, len(values))
	for i, v := range values {
		index[v] = i
	}
	return index
}
