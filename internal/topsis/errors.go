package topsis

import "errors"

// Every error returned by this package wraps one of these sentinels; match
// them with errors.Is.
var (
	// ErrInvalidCriterion is returned for a criterion whose weight is zero, NaN or infinite.
	ErrInvalidCriterion = errors.New("topsis: invalid criterion")

	// ErrEmptyCriteria is returned when a Criteria collection has no elements.
	ErrEmptyCriteria = errors.New("topsis: empty criteria")

	// ErrEmptyMatrix is returned when a Matrix has no alternatives or no columns.
	ErrEmptyMatrix = errors.New("topsis: empty matrix")

	// ErrNonFiniteValue is returned when a Matrix entry is NaN or ±Inf.
	ErrNonFiniteValue = errors.New("topsis: non-finite value")

	// ErrDimensionMismatch is returned when row widths disagree with each
	// other or with the number of criteria at scoring time.
	ErrDimensionMismatch = errors.New("topsis: dimension mismatch")
)

// IsInputError reports whether err was caused by invalid criteria or matrix
// data rather than an internal failure.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidCriterion) ||
		errors.Is(err, ErrEmptyCriteria) ||
		errors.Is(err, ErrEmptyMatrix) ||
		errors.Is(err, ErrNonFiniteValue) ||
		errors.Is(err, ErrDimensionMismatch)
}
