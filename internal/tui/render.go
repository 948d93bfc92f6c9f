package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/golang/geo/r2"
)

// maxOutlinedTiles caps the tiles whose outlines are drawn in one frame.
const maxOutlinedTiles = 20000

// world returns the box shown at zoom 1: the dataset bounds, widened on any
// axis without extent.
func (m Model) world() (r2.Rect, bool) {
	if m.ds == nil || m.ds.Bounds.IsEmpty() {
		return r2.Rect{}, false
	}
	b := m.ds.Bounds
	size := b.Size()
	pad := 0.5 * max(size.X, size.Y)
	if pad == 0 {
		pad = 0.5
	}
	if size.X == 0 {
		b.X = b.X.Expanded(pad)
	}
	if size.Y == 0 {
		b.Y = b.Y.Expanded(pad)
	}
	return b, true
}

// cellToWorld converts a map cell coordinate back to a data point using the
// world box, zoom, and pan.
func (m Model) cellToWorld(cx, cy, w, h int) (r2.Point, bool) {
	b, ok := m.world()
	if !ok || w <= 1 || h <= 1 {
		return r2.Point{}, false
	}
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	return r2.Point{
		X: b.X.Lo + nx*b.X.Length(),
		Y: b.Y.Lo + ny*b.Y.Length(),
	}, true
}

// screenXYMicro maps a data point into a 2x4 microgrid per cell for braille rendering.
func (m Model) screenXYMicro(p r2.Point, w, h int) (int, int, bool) {
	b, ok := m.world()
	if !ok {
		return 0, 0, false
	}
	nx := (p.X - b.X.Lo) / b.X.Length()
	ny := (p.Y - b.Y.Lo) / b.Y.Length()
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	wMic := w * 2
	hMic := h * 4
	sx := int(zx*float64(wMic-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(hMic-1)) + m.offsetY*4
	return sx, sy, true
}

// screenXY maps a data point to current screen integer coordinates considering zoom and pan.
func (m Model) screenXY(p r2.Point, w, h int) (int, int, bool) {
	b, ok := m.world()
	if !ok {
		return 0, 0, false
	}
	nx := (p.X - b.X.Lo) / b.X.Length()
	ny := (p.Y - b.Y.Lo) / b.Y.Length()
	// Apply zoom around center (0.5, 0.5)
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	sx := int(zx*float64(w-1)) + m.offsetX
	sy := int((1.0-zy)*float64(h-1)) + m.offsetY
	return sx, sy, true
}

// visible returns the data-space box covered by a w x h map.
func (m Model) visible(w, h int) (r2.Rect, bool) {
	a, ok := m.cellToWorld(0, 0, w, h)
	if !ok {
		return r2.Rect{}, false
	}
	b, _ := m.cellToWorld(w-1, h-1, w, h)
	return r2.RectFromPoints(a, b), true
}

// tileAt returns the scored tile under p, or -1.
func (m Model) tileAt(p r2.Point) int {
	if m.grid == nil || m.result == nil || !m.grid.Bounds.ContainsPoint(p) {
		return -1
	}
	return m.grid.MapPoint(p)
}

// shadeAt returns the palette level of the tile under map cell (x,y), or -1
// when the cell is not shaded.
func (m Model) shadeAt(x, y, w, h int) int {
	if !m.showShading {
		return -1
	}
	p, ok := m.cellToWorld(x, y, w, h)
	if !ok {
		return -1
	}
	t := m.tileAt(p)
	if t < 0 || m.result.Counts[t] == 0 {
		return -1
	}
	return m.pal.level(m.result.Values[t])
}

func (m Model) renderMap(w, h int) string {
	// High-resolution braille buffer for points and tile edges
	br := newBrailleBuf(w, h)

	if m.showOutlines && m.grid != nil && m.grid.CellCount() <= maxOutlinedTiles {
		if view, ok := m.visible(w, h); ok {
			for i := range m.grid.CellCount() {
				if !view.Intersects(m.grid.CellBounds(i)) {
					continue
				}
				m.outlineTile(br, i, w, h)
			}
		}
	}

	if m.showPoints && m.ds != nil {
		for _, p := range m.ds.Points {
			mx, my, ok := m.screenXYMicro(p, w, h)
			if !ok {
				continue
			}
			br.setPixel(mx, my)
		}
	}

	braLines := br.toLines()
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		row := []rune(braLines[y])
		var sb strings.Builder
		start, level := 0, m.shadeAt(0, y, w, h)
		for x := 1; x <= w; x++ {
			next := -2
			if x < w {
				next = m.shadeAt(x, y, w, h)
			}
			if next == level {
				continue
			}
			sb.WriteString(m.runStyle(level).Render(string(row[start:x])))
			start, level = x, next
		}
		lines[y] = sb.String()
	}

	// Hover highlight: mark the hovered cell
	if m.hovering && m.hoverCellY >= 0 && m.hoverCellY < h && m.hoverCellX >= 0 && m.hoverCellX < w {
		lines[m.hoverCellY] = m.markCell(braLines[m.hoverCellY], m.hoverCellX, w, h)
	}
	return strings.Join(lines, "\n")
}

func (m Model) runStyle(level int) lipgloss.Style {
	if level < 0 {
		return plainStyle
	}
	return m.pal.style(level)
}

// markCell re-renders row y with an orange marker at column cx.
func (m Model) markCell(braLine string, cx, w, h int) string {
	y := m.hoverCellY
	row := []rune(braLine)
	marker := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true)
	var sb strings.Builder
	for x := 0; x < w; x++ {
		st := m.runStyle(m.shadeAt(x, y, w, h))
		if x == cx {
			sb.WriteString(marker.Inherit(st).Render("◯"))
			continue
		}
		sb.WriteString(st.Render(string(row[x])))
	}
	return sb.String()
}

// outlineTile draws the edges of tile i into br.
func (m Model) outlineTile(br *brailleBuf, i, w, h int) {
	vs := m.grid.CellVertices(i)
	pts := make([][2]int, 0, len(vs))
	for _, v := range vs {
		mx, my, ok := m.screenXYMicro(v, w, h)
		if !ok {
			return
		}
		pts = append(pts, [2]int{mx, my})
	}
	for j, a := range pts {
		b := pts[(j+1)%len(pts)]
		br.drawLineMicro(a[0], a[1], b[0], b[1])
	}
}

// inspectNearest finds the point closest to the viewport center.
func (m Model) inspectNearest() (r2.Point, bool) {
	if m.ds == nil || len(m.ds.Points) == 0 {
		return r2.Point{}, false
	}
	w, h := m.mapW, m.mapH
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	cx, cy := w/2, h/2
	bestD := 1<<31 - 1
	var best r2.Point
	for _, p := range m.ds.Points {
		sx, sy, ok := m.screenXY(p, w, h)
		if !ok {
			continue
		}
		dx := sx - cx
		dy := sy - cy
		d := dx*dx + dy*dy
		if d < bestD {
			bestD = d
			best = p
		}
	}
	if bestD == 1<<31-1 {
		return r2.Point{}, false
	}
	return best, true
}
