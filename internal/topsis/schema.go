package topsis

import "fmt"

type schemaField[T any] struct {
	name    string
	weight  float64
	extract func(T) float64
}

// SchemaBuilder collects named, weighted fields of a record type T.
type SchemaBuilder[T any] struct {
	fields []schemaField[T]
}

// NewSchema starts a schema for records of type T.
func NewSchema[T any]() *SchemaBuilder[T] {
	return &SchemaBuilder[T]{}
}

// Field appends a criterion whose value is read from a record by extract.
// Field order is column order.
func (b *SchemaBuilder[T]) Field(name string, weight float64, extract func(T) float64) *SchemaBuilder[T] {
	b.fields = append(b.fields, schemaField[T]{name: name, weight: weight, extract: extract})
	return b
}

// Build validates the collected fields and returns the schema.
func (b *SchemaBuilder[T]) Build() (*Schema[T], error) {
	cs := make([]Criterion, 0, len(b.fields))
	extract := make([]func(T) float64, 0, len(b.fields))
	for _, f := range b.fields {
		if f.extract == nil {
			return nil, fmt.Errorf("%w: %q has no extractor", ErrInvalidCriterion, f.name)
		}
		c, err := NewCriterion(f.name, f.weight)
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
		extract = append(extract, f.extract)
	}
	criteria, err := NewCriteria(cs...)
	if err != nil {
		return nil, err
	}
	return &Schema[T]{criteria: criteria, extract: extract}, nil
}

// Schema binds a Criteria to a record type so records can be scored directly.
type Schema[T any] struct {
	criteria Criteria
	extract  []func(T) float64
}

func (s *Schema[T]) Criteria() Criteria { return s.criteria }

// Vector converts rec into its numeric form in criteria order.
func (s *Schema[T]) Vector(rec T) []float64 {
	v := make([]float64, len(s.extract))
	for i, fn := range s.extract {
		v[i] = fn(rec)
	}
	return v
}

// Matrix converts recs into a validated Matrix.
func (s *Schema[T]) Matrix(recs []T) (*Matrix, error) {
	rows := make([][]float64, len(recs))
	for i, rec := range recs {
		rows[i] = s.Vector(rec)
	}
	return NewMatrix(rows)
}

// Score scores recs, index-aligned with the input.
func (s *Schema[T]) Score(recs []T) ([]float64, error) {
	m, err := s.Matrix(recs)
	if err != nil {
		return nil, err
	}
	return ScoreAlternatives(m, s.criteria)
}

// Rank returns indices of recs ordered best first.
func (s *Schema[T]) Rank(recs []T) ([]int, error) {
	scores, err := s.Score(recs)
	if err != nil {
		return nil, err
	}
	return Rank(scores), nil
}
