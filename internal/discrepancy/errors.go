package discrepancy

import "errors"

var (
	// ErrNilGrid is returned when no grid is passed to Analyze.
	ErrNilGrid = errors.New("discrepancy: nil grid")
	// ErrNonFinitePoint is returned for a point with a NaN or infinite coordinate.
	ErrNonFinitePoint = errors.New("discrepancy: non-finite point")
	// ErrInvalidParams is returned by Params.Validate.
	ErrInvalidParams = errors.New("discrepancy: invalid parameters")
)
