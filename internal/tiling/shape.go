package tiling

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r2"
)

// Kind identifies a tile shape.
type Kind int

const (
	// KindSquare tiles the plane with axis-aligned squares.
	KindSquare Kind = iota
	// KindHex tiles the plane with flat-topped hexagons in offset coordinates.
	KindHex
)

func (k Kind) String() string {
	switch k {
	case KindSquare:
		return "square"
	case KindHex:
		return "hex"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts "square" and "hex" (or "hexagon"), case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "square", "squares":
		return KindSquare, nil
	case "hex", "hexagon", "hexagons":
		return KindHex, nil
	}
	return 0, fmt.Errorf("%w: unknown tile shape %q", ErrInvalidParameter, s)
}

// Shape sizes a grid over a bounding box and maps points into it.
// The set of shapes is closed: Square and Hex are the only implementations.
type Shape interface {
	Kind() Kind

	// layout fills the shape-specific fields of g from the (already widened)
	// box size and its minimum corner.
	layout(g *Grid, size, min r2.Point)
	// mapPoint returns the row-major cell index of p; g was produced by layout.
	mapPoint(g *Grid, p r2.Point) int
	// center returns the centre of cell (col,row).
	center(g *Grid, col, row int) r2.Point
	// vertices returns the corners of cell (col,row) counter-clockwise.
	vertices(g *Grid, col, row int) []r2.Point
}

var (
	// Square is the square tile shape.
	Square Shape = squareShape{}
	// Hex is the flat-topped hexagon tile shape.
	Hex Shape = hexShape{}
)

// ShapeOf returns the Shape for k.
func ShapeOf(k Kind) (Shape, error) {
	switch k {
	case KindSquare:
		return Square, nil
	case KindHex:
		return Hex, nil
	}
	return nil, fmt.Errorf("%w: unknown tile shape %v", ErrInvalidParameter, k)
}
