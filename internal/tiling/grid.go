package tiling

import (
	"fmt"
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// MaxCells bounds the number of tiles a single grid may hold.
const MaxCells = 1 << 24

// ErrTooManyCells indicates a cell size so small relative to the bounding box
// that the grid would exceed MaxCells.
var ErrTooManyCells = wrap(fmt.Sprintf("grid would exceed %d cells", MaxCells))

// Grid is the tile grid produced by ComputeGrid. It is immutable once built;
// a new Grid is computed whenever the shape, cell size or bounding box changes.
type Grid struct {
	shape Shape

	// CellSize is the requested nominal tile width.
	CellSize float64
	// Columns and Rows are the number of tile columns (x) and rows (y).
	Columns, Rows int
	// Input is the bounding box the grid was computed for.
	Input r2.Rect
	// Bounds is the extent of the tile grid itself. It contains Input and is
	// expanded outward to whole tiles.
	Bounds r2.Rect
	// Hex holds the derived hexagon geometry; zero for square grids.
	Hex HexLayout
}

// HexLayout is the derived geometry of a hexagon grid and of the auxiliary
// rectangle grid used to locate points.
type HexLayout struct {
	// Size is half the nominal cell size: the centre-to-corner distance.
	Size float64
	// HorizontalSpacing is the distance between neighbouring column centres (1.5·Size).
	HorizontalSpacing float64
	// VerticalSpacing is the distance between neighbouring row centres (√3·Size).
	VerticalSpacing float64
	// RectWidth and RectHeight size one auxiliary rectangle (Size × VerticalSpacing/2).
	RectWidth, RectHeight float64
	// MaxRectColumn and MaxRectRow are the largest valid rectangle indices.
	MaxRectColumn, MaxRectRow int
	// RectBounds is the extent of the rectangle grid; its minimum equals Bounds' minimum.
	RectBounds r2.Rect
}

// MinExtent returns the extent substituted for a bounding-box axis narrower
// than it, for the given cell size.
func MinExtent(cellSize float64) float64 {
	return math.Max(cellSize*1e-9, 1e-12)
}

// ComputeGrid sizes a grid of shape s with the given cell size over bounds.
// An axis with (near) zero extent is widened to MinExtent so the grid still
// has one column or row on that axis.
func ComputeGrid(s Shape, cellSize float64, bounds r2.Rect) (*Grid, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil shape", ErrInvalidParameter)
	}
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidCellSize, cellSize)
	}
	if err := validateBounds(bounds); err != nil {
		return nil, err
	}

	size := bounds.Size()
	ext := MinExtent(cellSize)
	if size.X < ext {
		size.X = ext
	}
	if size.Y < ext {
		size.Y = ext
	}
	// Guard the float→int conversions below; a hexagon column is 0.75 cells
	// wide and a row 0.87 cells high, so 2 cells per axis unit is conservative.
	if size.X/cellSize*2 > MaxCells || size.Y/cellSize*2 > MaxCells ||
		(size.X/cellSize+2)*(size.Y/cellSize+2)*2 > MaxCells {
		return nil, ErrTooManyCells
	}

	g := &Grid{
		shape:    s,
		CellSize: cellSize,
		Input:    bounds,
	}
	s.layout(g, size, bounds.Lo())
	if g.Columns < 1 {
		g.Columns = 1
	}
	if g.Rows < 1 {
		g.Rows = 1
	}
	return g, nil
}

func validateBounds(b r2.Rect) error {
	for _, v := range []float64{b.X.Lo, b.X.Hi, b.Y.Lo, b.Y.Hi} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite corner in %v", ErrInvalidBounds, b)
		}
	}
	if b.X.Lo > b.X.Hi || b.Y.Lo > b.Y.Hi {
		return fmt.Errorf("%w: min > max in %v", ErrInvalidBounds, b)
	}
	return nil
}

// Shape returns the shape the grid was computed for.
func (g *Grid) Shape() Shape { return g.shape }

// Kind returns the kind of the grid's shape.
func (g *Grid) Kind() Kind { return g.shape.Kind() }

// CellCount returns Rows*Columns.
func (g *Grid) CellCount() int { return g.Rows * g.Columns }

// MapPoint returns the row-major index of the tile containing p.
// Points outside the grid are clamped onto the nearest edge tile, so the
// result is always in [0, CellCount()).
func (g *Grid) MapPoint(p r2.Point) int {
	if g == nil || g.shape == nil {
		panic("tiling: MapPoint called without a computed grid; call ComputeGrid first")
	}
	return g.shape.mapPoint(g, p)
}

// Index returns the row-major index of (col,row).
func (g *Grid) Index(col, row int) int { return col + g.Columns*row }

// Coordinate converts a row-major index back to (col,row).
func (g *Grid) Coordinate(idx int) (col, row int) {
	return idx % g.Columns, idx / g.Columns
}

// Contains reports whether idx is a valid tile index.
func (g *Grid) Contains(idx int) bool { return idx >= 0 && idx < g.CellCount() }

// CellCenter returns the centre of tile idx.
func (g *Grid) CellCenter(idx int) r2.Point {
	col, row := g.Coordinate(idx)
	return g.shape.center(g, col, row)
}

// CellVertices returns the corners of tile idx counter-clockwise: four for
// squares, six for hexagons.
func (g *Grid) CellVertices(idx int) []r2.Point {
	col, row := g.Coordinate(idx)
	return g.shape.vertices(g, col, row)
}

// CellBounds returns the axis-aligned bounding box of tile idx.
func (g *Grid) CellBounds(idx int) r2.Rect {
	return r2.RectFromPoints(g.CellVertices(idx)...)
}

func (g *Grid) String() string {
	return fmt.Sprintf("%v grid %dx%d (cell %g) over [%g,%g]x[%g,%g]",
		g.Kind(), g.Columns, g.Rows, g.CellSize,
		g.Bounds.X.Lo, g.Bounds.X.Hi, g.Bounds.Y.Lo, g.Bounds.Y.Hi)
}

func rect(minX, minY, maxX, maxY float64) r2.Rect {
	return r2.Rect{X: r1.Interval{Lo: minX, Hi: maxX}, Y: r1.Interval{Lo: minY, Hi: maxY}}
}
