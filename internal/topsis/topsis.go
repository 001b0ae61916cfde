// Package topsis ranks alternatives against weighted benefit and cost
// criteria by their relative closeness to an ideal and an anti-ideal point.
package topsis

import (
	"fmt"
	"math"
	"sort"
)

// Evaluation captures every intermediate step of a scoring run. Scores is
// index-aligned with the matrix rows.
type Evaluation struct {
	Criteria  []string    `json:"criteria"`
	Weighted  [][]float64 `json:"weighted"`
	Ideal     []float64   `json:"ideal"`
	AntiIdeal []float64   `json:"anti_ideal"`
	DistBest  []float64   `json:"dist_best"`
	DistWorst []float64   `json:"dist_worst"`
	Scores    []float64   `json:"scores"`
}

// Evaluate runs the full pipeline over m and c. Neither input is modified.
func Evaluate(m *Matrix, c Criteria) (*Evaluation, error) {
	if err := checkInputs(m, c); err != nil {
		return nil, err
	}

	weighted := weightedNormalized(m, c)
	ideal, anti := idealPoints(weighted, c)

	ev := &Evaluation{
		Criteria:  c.Names(),
		Weighted:  weighted,
		Ideal:     ideal,
		AntiIdeal: anti,
		DistBest:  make([]float64, len(weighted)),
		DistWorst: make([]float64, len(weighted)),
		Scores:    make([]float64, len(weighted)),
	}
	for i, row := range weighted {
		ev.DistBest[i] = distance(row, ideal)
		ev.DistWorst[i] = distance(row, anti)
		ev.Scores[i] = closeness(ev.DistBest[i], ev.DistWorst[i])
	}
	return ev, nil
}

func checkInputs(m *Matrix, c Criteria) error {
	if m == nil {
		return fmt.Errorf("%w: nil matrix", ErrEmptyMatrix)
	}
	if c.Len() == 0 {
		return ErrEmptyCriteria
	}
	if m.Cols() != c.Len() {
		return fmt.Errorf("%w: matrix has %d columns, criteria has %d", ErrDimensionMismatch, m.Cols(), c.Len())
	}
	return nil
}

// ScoreAlternatives returns one score in [0, 1] per alternative, higher is better.
func ScoreAlternatives(m *Matrix, c Criteria) ([]float64, error) {
	ev, err := Evaluate(m, c)
	if err != nil {
		return nil, err
	}
	return ev.Scores, nil
}

// RankAlternatives returns alternative indices ordered best first.
func RankAlternatives(m *Matrix, c Criteria) ([]int, error) {
	scores, err := ScoreAlternatives(m, c)
	if err != nil {
		return nil, err
	}
	return Rank(scores), nil
}

// Rank orders indices of scores descending by score. Equal scores keep
// ascending index order.
func Rank(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}

// weightedNormalized divides every column by its Euclidean norm and scales
// it by the column's normalized weight. A zero-norm column becomes all zeros.
// Values are divided by the column's largest magnitude before squaring so the
// norm neither overflows nor underflows.
func weightedNormalized(m *Matrix, c Criteria) [][]float64 {
	rows, cols := m.Rows(), m.Cols()

	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
	}
	for j := 0; j < cols; j++ {
		var scale float64
		for i := 0; i < rows; i++ {
			scale = math.Max(scale, math.Abs(m.At(i, j)))
		}
		if scale == 0 {
			continue
		}
		var sum float64
		for i := 0; i < rows; i++ {
			v := m.At(i, j) / scale
			sum += v * v
		}
		norm := math.Sqrt(sum)
		for i := 0; i < rows; i++ {
			out[i][j] = m.At(i, j) / scale / norm * c.norm[j]
		}
	}
	return out
}

// idealPoints picks per column the best and worst value. For benefit
// criteria best is the maximum, for cost criteria the minimum.
func idealPoints(weighted [][]float64, c Criteria) (ideal, anti []float64) {
	cols := c.Len()
	ideal = make([]float64, cols)
	anti = make([]float64, cols)

	for j := 0; j < cols; j++ {
		lo, hi := weighted[0][j], weighted[0][j]
		for _, row := range weighted[1:] {
			lo = math.Min(lo, row[j])
			hi = math.Max(hi, row[j])
		}
		if c.At(j).IsBenefit() {
			ideal[j], anti[j] = hi, lo
		} else {
			ideal[j], anti[j] = lo, hi
		}
	}
	return ideal, anti
}

// distance is the Euclidean distance between a and b, scaled by the largest
// component difference like the column norms.
func distance(a, b []float64) float64 {
	var scale float64
	for i := range a {
		scale = math.Max(scale, math.Abs(a[i]-b[i]))
	}
	if scale == 0 {
		return 0
	}
	var sum float64
	for i := range a {
		d := (a[i] - b[i]) / scale
		sum += d * d
	}
	return scale * math.Sqrt(sum)
}

// closeness is dWorst / (dBest + dWorst), or 0 when the alternative sits on
// both the ideal and the anti-ideal point.
func closeness(dBest, dWorst float64) float64 {
	denom := dBest + dWorst
	if denom == 0 {
		return 0
	}
	return dWorst / denom
}
