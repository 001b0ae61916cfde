package topsis

import (
	"fmt"
	"math"
)

// Criterion is a named weight. A positive weight marks a benefit criterion
// (higher is better), a negative one a cost criterion (lower is better). The
// magnitude is the relative importance. The name is only used in diagnostics.
type Criterion struct {
	name   string
	weight float64
}

// NewCriterion validates weight and returns the criterion.
func NewCriterion(name string, weight float64) (Criterion, error) {
	c := Criterion{name: name, weight: weight}
	if err := c.validate(); err != nil {
		return Criterion{}, err
	}
	return c, nil
}

func (c Criterion) validate() error {
	if c.weight == 0 || math.IsNaN(c.weight) || math.IsInf(c.weight, 0) {
		return fmt.Errorf("%w: %q has weight %v", ErrInvalidCriterion, c.name, c.weight)
	}
	return nil
}

func (c Criterion) Name() string    { return c.name }
func (c Criterion) Weight() float64 { return c.weight }

// IsBenefit reports whether higher values are preferable.
func (c Criterion) IsBenefit() bool { return c.weight > 0 }

// Criteria is an ordered, fixed set of criteria. Its order defines the column
// order of every Matrix scored against it.
type Criteria struct {
	items []Criterion
	// norm holds |weight| / Σ|weight| per criterion.
	norm []float64
}

// NewCriteria builds a Criteria from cs in order. Each element is validated
// again so that zero-value Criterion literals are rejected too.
func NewCriteria(cs ...Criterion) (Criteria, error) {
	if len(cs) == 0 {
		return Criteria{}, ErrEmptyCriteria
	}
	for i, c := range cs {
		if err := c.validate(); err != nil {
			return Criteria{}, fmt.Errorf("criterion %d: %w", i, err)
		}
	}
	items := make([]Criterion, len(cs))
	copy(items, cs)
	return Criteria{items: items, norm: normalizeWeights(items)}, nil
}

// normalizeWeights scales |w| to sum to 1. Dividing by the largest magnitude
// first keeps the sum finite for any finite weights.
func normalizeWeights(items []Criterion) []float64 {
	var scale float64
	for _, c := range items {
		scale = math.Max(scale, math.Abs(c.weight))
	}
	var sum float64
	for _, c := range items {
		sum += math.Abs(c.weight) / scale
	}
	norm := make([]float64, len(items))
	for i, c := range items {
		norm[i] = math.Abs(c.weight) / scale / sum
	}
	return norm
}

// MustCriteria is like NewCriteria but panics on error. Intended for
// package-level fixed criteria sets.
func MustCriteria(cs ...Criterion) Criteria {
	c, err := NewCriteria(cs...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Criteria) Len() int { return len(c.items) }

// At returns the i-th criterion. It panics if i is out of range.
func (c Criteria) At(i int) Criterion { return c.items[i] }

func (c Criteria) Names() []string {
	names := make([]string, len(c.items))
	for i, item := range c.items {
		names[i] = item.name
	}
	return names
}

// Weights returns the weights as given, not normalized.
func (c Criteria) Weights() []float64 {
	weights := make([]float64, len(c.items))
	for i, item := range c.items {
		weights[i] = item.weight
	}
	return weights
}
