package tui

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"honeycomb/internal/config"
	"honeycomb/internal/discrepancy"
	"honeycomb/internal/geom"
	"honeycomb/internal/tiling"
)

const (
	defaultTileFraction = 0.05
	minTileFraction     = 0.005
	maxTileFraction     = 1.0
	tileFractionStep    = 1.25

	easeInStep = 0.25
	maxEaseIn  = 8.0
	weightStep = 0.05
)

// computedMsg is the outcome of one recompute request.
type computedMsg struct {
	gen    uint64
	grid   *tiling.Grid
	result *discrepancy.Result
	err    error
	took   time.Duration
}

// recompute lays out the grid for the current dataset and settings and
// returns the command that scores it. Requests still in flight become stale.
func (m *Model) recompute() tea.Cmd {
	m.gen++
	m.computing = false
	if m.ds == nil || !m.tiled {
		m.grid, m.result = nil, nil
		m.refreshTiles()
		return nil
	}
	shape, err := tiling.ShapeOf(m.kind)
	if err != nil {
		m.status = "shape error: " + err.Error()
		return nil
	}
	cell := config.CellSize(m.tileFraction, m.ds.Bounds)
	g, err := tiling.ComputeGrid(shape, cell, m.ds.Bounds)
	if err != nil {
		m.status = "grid error: " + err.Error()
		return nil
	}

	m.computing = true
	gen, pts, params, analyze := m.gen, m.ds.Points, m.params, m.analyze
	return func() tea.Msg {
		start := time.Now()
		res, err := analyze(g, pts, params)
		return computedMsg{gen: gen, grid: g, result: res, err: err, took: time.Since(start)}
	}
}

// applyComputed installs msg and reports whether it was current.
func (m *Model) applyComputed(msg computedMsg) bool {
	if msg.gen != m.gen {
		m.log.Debug("dropping stale result", "gen", msg.gen, "latest", m.gen)
		return false
	}
	m.computing = false
	if msg.err != nil {
		m.status = "discrepancy error: " + msg.err.Error()
		return true
	}
	m.grid, m.result = msg.grid, msg.result
	m.status = fmt.Sprintf("%s  %d×%d  tiles %s  occupied %s  max %s pts/tile  %s",
		msg.grid.Kind(), msg.grid.Columns, msg.grid.Rows,
		humanize.Comma(int64(msg.grid.CellCount())),
		humanize.Comma(int64(msg.result.Occupied())),
		humanize.Comma(int64(msg.result.MaxCount)),
		msg.took.Round(time.Microsecond))
	m.refreshTiles()
	return true
}

// setDataset replaces the points and starts scoring them.
func (m *Model) setDataset(ds *geom.Dataset) tea.Cmd {
	m.ds = ds
	m.grid, m.result = nil, nil
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.inspectPopup = ""
	m.status = fmt.Sprintf("loaded: %s  %s points", ds.Name, humanize.Comma(int64(ds.Len())))
	if ds.Skipped > 0 {
		m.status += fmt.Sprintf("  skipped %s", humanize.Comma(int64(ds.Skipped)))
	}
	m.log.Debug("dataset loaded", "name", ds.Name, "format", ds.Format, "points", ds.Len(), "skipped", ds.Skipped)
	return m.recompute()
}

// cycleShape steps through no tiling, squares and hexagons.
func (m *Model) cycleShape() tea.Cmd {
	switch {
	case !m.tiled:
		m.tiled, m.kind = true, tiling.KindSquare
	case m.kind == tiling.KindSquare:
		m.kind = tiling.KindHex
	default:
		m.tiled = false
	}
	m.status = "tiling: " + m.shapeName()
	return m.recompute()
}

func (m Model) shapeName() string {
	if !m.tiled {
		return "none"
	}
	return m.kind.String()
}

// scaleTiles multiplies the tile fraction by f within its limits.
func (m *Model) scaleTiles(f float64) tea.Cmd {
	next := math.Min(math.Max(m.tileFraction*f, minTileFraction), maxTileFraction)
	if next == m.tileFraction {
		return nil
	}
	m.tileFraction = next
	m.status = fmt.Sprintf("tile size: %.3g of extent", m.tileFraction)
	return m.recompute()
}

// setParams installs p if it is valid.
func (m *Model) setParams(p discrepancy.Params) tea.Cmd {
	p.EaseIn = math.Min(p.EaseIn, maxEaseIn)
	p.LowCountWeight = math.Round(p.LowCountWeight*100) / 100
	if p.Validate() != nil || p == m.params {
		return nil
	}
	m.params = p
	m.status = fmt.Sprintf("ease-in %.2f  low-count weight %.2f", p.EaseIn, p.LowCountWeight)
	return m.recompute()
}
