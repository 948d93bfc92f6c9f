package tiling

import (
	"math"

	"github.com/golang/geo/r2"
)

// hexShape lays out flat-topped hexagons in offset coordinates. Column c has
// its centre at x = minX + s/2 + 1.5·s·c; odd columns start half a row lower
// than even ones. See https://www.redblobgames.com/grids/hexagons/.
type hexShape struct{}

func (hexShape) Kind() Kind { return KindHex }

func (hexShape) layout(g *Grid, size, min r2.Point) {
	// The cell size is the width of the hexagon's bounding box, the hexagon
	// size is centre-to-corner, hence the halving.
	s := g.CellSize / 2
	h := HexLayout{
		Size:              s,
		HorizontalSpacing: 1.5 * s,
		VerticalSpacing:   math.Sqrt(3) * s,
	}
	// Each rectangle is half as wide and half as high as a hexagon.
	h.RectWidth = s
	h.RectHeight = h.VerticalSpacing / 2

	// The leading 1 keeps floor from returning 0; the extra column (row) is
	// added when the remainder still reaches past the last hexagon's body.
	t := 1 + size.X/h.HorizontalSpacing
	g.Columns = int(math.Floor(t))
	if (t-float64(g.Columns))*h.HorizontalSpacing >= s {
		g.Columns++
	}
	t = 1 + size.Y/h.VerticalSpacing
	g.Rows = int(math.Floor(t))
	if (t-float64(g.Rows))*h.VerticalSpacing >= h.VerticalSpacing/2 {
		g.Rows++
	}

	// Three rectangle columns cover two hexagon columns.
	h.MaxRectColumn = int(math.Ceil(float64(g.Columns) * 1.5))
	if g.Columns%2 == 1 {
		h.MaxRectColumn--
	}
	h.MaxRectRow = g.Rows * 2

	lo := r2.Point{X: min.X - s/2, Y: min.Y - h.VerticalSpacing/2}
	g.Bounds = rect(lo.X, lo.Y,
		float64(g.Columns)*h.HorizontalSpacing+lo.X+s/2,
		float64(g.Rows)*h.VerticalSpacing+lo.Y+h.VerticalSpacing/2)
	h.RectBounds = rect(lo.X, lo.Y,
		float64(h.MaxRectColumn+1)*h.RectWidth+lo.X,
		float64(h.MaxRectRow+1)*h.RectHeight+lo.Y)
	g.Hex = h
}

func (hexShape) mapPoint(g *Grid, p r2.Point) int {
	h := &g.Hex
	lo := h.RectBounds.Lo()
	rectX := ClampIndex(MapInterval(p.X, lo.X, h.RectBounds.X.Hi, h.MaxRectColumn+1), h.MaxRectColumn)
	rectY := ClampIndex(MapInterval(p.Y, lo.Y, h.RectBounds.Y.Hi, h.MaxRectRow+1), h.MaxRectRow)

	// lower left corner of the rectangle
	ll := r2.Point{
		X: float64(rectX)*h.RectWidth + lo.X,
		Y: float64(rectY)*h.RectHeight + lo.Y,
	}

	// Within a triple of rectangle columns, mod 2 lies inside an odd hexagon
	// column; mod 0 and mod 1 are split by a slanted hexagon edge.
	modX, modY := rectX%3, rectY%2
	hexX := rectX/3*2 + modX - 1
	if modX != 2 {
		a, b := hexEdge(ll, h.RectWidth, h.RectHeight, modX, modY)
		if leftOfLine(a, b, p) {
			hexX++
		}
	}
	hexX = ClampIndex(hexX, g.Columns-1)

	// Even columns are shifted up half a row. Rectangle row 0 of an even
	// column lies below its first hexagon and is clamped into row 0.
	hexY := ClampIndex(floorDiv(rectY-(1-hexX%2), 2), g.Rows-1)
	return hexX + g.Columns*hexY
}

// hexEdge returns the endpoints of the hexagon edge crossing the rectangle
// with lower left corner ll. Points left of a→b belong to the next column.
func hexEdge(ll r2.Point, w, h float64, modX, modY int) (a, b r2.Point) {
	switch {
	case modX == 0 && modY == 0:
		// lower right edge of the odd column on the left
		return r2.Point{X: ll.X + w/2, Y: ll.Y + h}, ll
	case modX == 0:
		// upper right edge of the odd column on the left
		return r2.Point{X: ll.X, Y: ll.Y + h}, r2.Point{X: ll.X + w/2, Y: ll.Y}
	case modY == 0:
		// upper right edge of the even column on the left
		return r2.Point{X: ll.X + w/2, Y: ll.Y + h}, r2.Point{X: ll.X + w, Y: ll.Y}
	default:
		// lower right edge of the even column on the left
		return r2.Point{X: ll.X + w, Y: ll.Y + h}, r2.Point{X: ll.X + w/2, Y: ll.Y}
	}
}

// leftOfLine reports whether p lies strictly left of the directed line a→b,
// i.e. (p-a) × (b-a) < 0.
func leftOfLine(a, b, p r2.Point) bool {
	return p.Sub(a).Cross(b.Sub(a)) < 0
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func (hexShape) center(g *Grid, col, row int) r2.Point {
	h := &g.Hex
	lo := g.Bounds.Lo()
	y := lo.Y + h.VerticalSpacing/2 + float64(row)*h.VerticalSpacing
	if col%2 == 0 {
		y += h.VerticalSpacing / 2
	}
	return r2.Point{X: lo.X + h.Size + float64(col)*h.HorizontalSpacing, Y: y}
}

func (s hexShape) vertices(g *Grid, col, row int) []r2.Point {
	c := s.center(g, col, row)
	r := g.Hex.Size
	dy := g.Hex.VerticalSpacing / 2
	return []r2.Point{
		{X: c.X + r, Y: c.Y},
		{X: c.X + r/2, Y: c.Y + dy},
		{X: c.X - r/2, Y: c.Y + dy},
		{X: c.X - r, Y: c.Y},
		{X: c.X - r/2, Y: c.Y - dy},
		{X: c.X + r/2, Y: c.Y - dy},
	}
}
