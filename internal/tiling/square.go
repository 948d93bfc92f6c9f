package tiling

import (
	"math"

	"github.com/golang/geo/r2"
)

type squareShape struct{}

func (squareShape) Kind() Kind { return KindSquare }

// layout covers the box with whole squares. The squares on the max sides
// rarely fit exactly, so the grid's max bound is pushed out to the next
// multiple of the cell size.
func (squareShape) layout(g *Grid, size, min r2.Point) {
	cell := g.CellSize
	g.Columns = int(math.Ceil(size.X / cell))
	g.Rows = int(math.Ceil(size.Y / cell))
	g.Bounds = rect(min.X, min.Y,
		float64(g.Columns)*cell+min.X,
		float64(g.Rows)*cell+min.Y)
}

func (squareShape) mapPoint(g *Grid, p r2.Point) int {
	// Map onto Columns buckets and clamp so x == max lands in the last one.
	x := ClampIndex(MapInterval(p.X, g.Bounds.X.Lo, g.Bounds.X.Hi, g.Columns), g.Columns-1)
	y := ClampIndex(MapInterval(p.Y, g.Bounds.Y.Lo, g.Bounds.Y.Hi, g.Rows), g.Rows-1)
	return x + g.Columns*y
}

func (squareShape) center(g *Grid, col, row int) r2.Point {
	return r2.Point{
		X: g.Bounds.X.Lo + (float64(col)+0.5)*g.CellSize,
		Y: g.Bounds.Y.Lo + (float64(row)+0.5)*g.CellSize,
	}
}

func (squareShape) vertices(g *Grid, col, row int) []r2.Point {
	x0 := g.Bounds.X.Lo + float64(col)*g.CellSize
	y0 := g.Bounds.Y.Lo + float64(row)*g.CellSize
	x1, y1 := x0+g.CellSize, y0+g.CellSize
	return []r2.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}
