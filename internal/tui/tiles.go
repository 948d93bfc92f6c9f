package tui

import (
	"fmt"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
	"github.com/dustin/go-humanize"
)

// maxTableRows caps the tile table to the highest scoring tiles.
const maxTableRows = 200

func tileColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "tile", Width: 8},
		{Title: "col", Width: 5},
		{Title: "row", Width: 5},
		{Title: "points", Width: 9},
		{Title: "score", Width: 7},
		{Title: "center", Width: 24},
	}
}

// refreshTiles rebuilds the table rows from the current result.
func (m *Model) refreshTiles() {
	if m.grid == nil || m.result == nil {
		m.tbl.SetRows(nil)
		return
	}
	top := m.result.Top(maxTableRows)
	rows := make([]table.Row, 0, len(top))
	for i, idx := range top {
		col, row := m.grid.Coordinate(idx)
		c := m.grid.CellCenter(idx)
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			strconv.Itoa(idx),
			strconv.Itoa(col),
			strconv.Itoa(row),
			humanize.Comma(int64(m.result.Counts[idx])),
			fmt.Sprintf("%.3f", m.result.Values[idx]),
			fmt.Sprintf("%.4g, %.4g", c.X, c.Y),
		})
	}
	m.tbl.SetRows(rows)
	m.tbl.GotoTop()
}

// tileWidth is the width of the table with cell padding.
func (m Model) tileWidth() int {
	w := 0
	for _, c := range m.tbl.Columns() {
		w += c.Width + 2
	}
	return w
}
