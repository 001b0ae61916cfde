package topsis

import (
	"fmt"
	"math"
)

// Matrix holds M alternatives (rows), each with N criterion values (columns).
// A row's position is the alternative's identity in score and rank output.
// The matrix owns a private copy of its data and is never mutated.
type Matrix struct {
	rows [][]float64
	cols int
}

// NewMatrix validates rows and copies them into a new Matrix.
func NewMatrix(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no alternatives", ErrEmptyMatrix)
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, fmt.Errorf("%w: alternatives have no values", ErrEmptyMatrix)
	}

	data := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: alternative %d has %d values, expected %d", ErrDimensionMismatch, i, len(row), cols)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: alternative %d, criterion %d is %v", ErrNonFiniteValue, i, j, v)
			}
		}
		data[i] = append([]float64(nil), row...)
	}
	return &Matrix{rows: data, cols: cols}, nil
}

// Rows returns the number of alternatives.
func (m *Matrix) Rows() int { return len(m.rows) }

// Cols returns the number of values per alternative.
func (m *Matrix) Cols() int { return m.cols }

// At returns the value of alternative i on criterion j.
func (m *Matrix) At(i, j int) float64 { return m.rows[i][j] }

// Row returns a copy of alternative i.
func (m *Matrix) Row(i int) []float64 {
	return append([]float64(nil), m.rows[i]...)
}
