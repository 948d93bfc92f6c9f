package tiling

import "errors"

var (
	// ErrInvalidParameter is the parent of every parameter error in this package.
	ErrInvalidParameter = errors.New("tiling: invalid parameter")
	// ErrInvalidCellSize indicates a cell size that is not a positive finite number.
	ErrInvalidCellSize = wrap("cell size must be positive and finite")
	// ErrInvalidBounds indicates a bounding box with min > max or non-finite corners.
	ErrInvalidBounds = wrap("bounding box must satisfy min <= max with finite corners")
)

type paramError struct{ msg string }

func (e *paramError) Error() string { return "tiling: " + e.msg }
func (e *paramError) Unwrap() error { return ErrInvalidParameter }

func wrap(msg string) error { return &paramError{msg: msg} }
