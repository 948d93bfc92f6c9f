package tui

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honeycomb/internal/discrepancy"
	"honeycomb/internal/geom"
	"honeycomb/internal/tiling"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	eng := discrepancy.NewEngine(discrepancy.WithWorkers(2))
	t.Cleanup(eng.Close)
	return New(Options{
		Engine:       eng,
		Shape:        tiling.KindHex,
		TileFraction: 0.25,
		Params:       discrepancy.DefaultParams(),
	})
}

func testDataset(t *testing.T) *geom.Dataset {
	t.Helper()
	ds, err := geom.ParseWKT("MULTIPOINT ((0 0), (1 1), (1.2 0.8), (1.1 1.3), (8 2), (10 10))")
	require.NoError(t, err)
	return ds
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends k to m and runs the returned command, feeding a computed
// result back the way the runtime would.
func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	next, cmd := m.Update(key(k))
	m = next.(Model)
	if cmd != nil {
		if msg, ok := cmd().(computedMsg); ok {
			next, _ = m.Update(msg)
			m = next.(Model)
		}
	}
	return m
}

func TestNew_Defaults(t *testing.T) {
	m := New(Options{TileFraction: 7, Params: discrepancy.Params{EaseIn: 0}})
	assert.Equal(t, defaultTileFraction, m.tileFraction)
	assert.Equal(t, discrepancy.DefaultParams(), m.params)
	assert.True(t, m.tiled)
	assert.Nil(t, m.Init())
}

func TestSetDataset_ComputesResult(t *testing.T) {
	m := newTestModel(t)
	cmd := m.setDataset(testDataset(t))
	require.NotNil(t, cmd)
	assert.True(t, m.computing)
	assert.Nil(t, m.grid)

	msg, ok := cmd().(computedMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	require.True(t, m.applyComputed(msg))

	assert.False(t, m.computing)
	require.NotNil(t, m.grid)
	require.NotNil(t, m.result)
	assert.Equal(t, tiling.KindHex, m.grid.Kind())
	assert.Len(t, m.result.Values, m.grid.CellCount())
	assert.Contains(t, m.status, "hex")
	assert.NotEmpty(t, m.tbl.Rows())
}

func TestStaleResultIsDropped(t *testing.T) {
	m := newTestModel(t)
	first := m.setDataset(testDataset(t))
	second := m.scaleTiles(tileFractionStep)
	require.NotNil(t, first)
	require.NotNil(t, second)

	stale := first().(computedMsg)
	fresh := second().(computedMsg)

	assert.False(t, m.applyComputed(stale))
	assert.Nil(t, m.grid)
	assert.True(t, m.computing)

	assert.True(t, m.applyComputed(fresh))
	assert.Same(t, fresh.grid, m.grid)
	assert.Equal(t, 0.25*tileFractionStep, m.tileFraction)
}

func TestCycleShape(t *testing.T) {
	m := newTestModel(t)
	m.tiled = false
	assert.Nil(t, m.setDataset(testDataset(t)))

	want := []string{"square", "hex", "none", "square"}
	for _, w := range want {
		m = press(t, m, "s")
		assert.Equal(t, w, m.shapeName())
		if w == "none" {
			assert.Nil(t, m.grid)
			assert.Nil(t, m.result)
		} else {
			require.NotNil(t, m.grid)
			assert.Equal(t, w, m.grid.Kind().String())
		}
	}
}

func TestParamKeys(t *testing.T) {
	m := newTestModel(t)
	m.setDataset(testDataset(t))

	cases := []struct {
		key    string
		easeIn float64
		weight float64
	}{
		{"e", 1.25, 0},
		{"e", 1.5, 0},
		{"E", 1.25, 0},
		{"W", 1.25, 0},
		{"w", 1.25, 0.05},
		{"w", 1.25, 0.1},
		{"E", 1, 0.1},
		{"E", 1, 0.1},
	}
	for _, tc := range cases {
		m = press(t, m, tc.key)
		assert.InDelta(t, tc.easeIn, m.params.EaseIn, 1e-12, tc.key)
		assert.InDelta(t, tc.weight, m.params.LowCountWeight, 1e-12, tc.key)
	}
	require.NotNil(t, m.result)
	assert.NoError(t, m.params.Validate())
}

func TestParamKeys_WeightCapped(t *testing.T) {
	m := newTestModel(t)
	for range 25 {
		m = press(t, m, "w")
	}
	assert.Equal(t, 1.0, m.params.LowCountWeight)
}

func TestScaleTiles_Limits(t *testing.T) {
	m := newTestModel(t)
	for range 40 {
		m.scaleTiles(tileFractionStep)
	}
	assert.Equal(t, maxTileFraction, m.tileFraction)
	assert.Nil(t, m.scaleTiles(tileFractionStep))

	for range 40 {
		m.scaleTiles(1 / tileFractionStep)
	}
	assert.Equal(t, minTileFraction, m.tileFraction)
}

func TestLayerKeys(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "2")
	assert.False(t, m.showShading)
	m = press(t, m, "3")
	assert.True(t, m.showOutlines)
	m = press(t, m, "l")
	assert.True(t, m.showPoints && m.showShading && m.showOutlines)
	m = press(t, m, "l")
	assert.False(t, m.showPoints || m.showShading || m.showOutlines)
}

func TestPasteMode(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "p")
	require.True(t, m.pasteMode)
	m.ta.SetValue("MULTIPOINT ((0 0), (4 4), (2 1))")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.False(t, m.pasteMode)
	require.NotNil(t, m.ds)
	assert.Equal(t, 3, m.ds.Len())
	require.NotNil(t, cmd)

	next, _ = m.Update(cmd())
	m = next.(Model)
	require.NotNil(t, m.result)
	assert.Equal(t, 3, m.result.Offsets[len(m.result.Offsets)-1]+m.result.Counts[len(m.result.Counts)-1])
}

func TestPasteMode_BadWKT(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "p")
	m.ta.SetValue("CIRCLE (1 2)")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.True(t, m.pasteMode)
	assert.True(t, strings.HasPrefix(m.status, "wkt error"))
}

func TestNewWithPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pts.csv")
	require.NoError(t, os.WriteFile(path, []byte("lon,lat\n0,0\n1,2\n3,1\n"), 0o644))

	eng := discrepancy.NewEngine(discrepancy.WithWorkers(1))
	defer eng.Close()
	m := NewWithPath(path, Options{Engine: eng, Shape: tiling.KindSquare, TileFraction: 0.5, Params: discrepancy.DefaultParams()})
	require.NotNil(t, m.ds)
	assert.Equal(t, "lon", m.ds.XColumn)

	cmd := m.Init()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	m = next.(Model)
	require.NotNil(t, m.grid)
	assert.Equal(t, 2, m.grid.Columns)
}

func TestNewWithPath_Missing(t *testing.T) {
	m := NewWithPath(filepath.Join(t.TempDir(), "nope.csv"), Options{})
	assert.Nil(t, m.ds)
	assert.Nil(t, m.Init())
	assert.Contains(t, m.status, "load error")
}

func TestTileTableToggle(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "t")
	assert.False(t, m.showTiles)
	assert.Equal(t, "no scored tiles", m.status)

	m.setDataset(testDataset(t))
	msg := m.recompute()().(computedMsg)
	m.applyComputed(msg)
	m = press(t, m, "t")
	assert.True(t, m.showTiles)

	top := m.result.Top(1)[0]
	rows := m.tbl.Rows()
	require.NotEmpty(t, rows)
	assert.Equal(t, "1", rows[0][0])
	assert.Equal(t, strconv.Itoa(top), rows[0][1])
}

func TestInspect(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "i")
	assert.Equal(t, "no point nearby", m.inspectPopup)

	m.setDataset(testDataset(t))
	m.applyComputed(m.recompute()().(computedMsg))
	m.mapW, m.mapH = 40, 20
	m = press(t, m, "i")
	assert.Contains(t, m.inspectPopup, "nearest:")
	assert.Contains(t, m.inspectPopup, "score:")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, next.(Model).inspectPopup)
}

func TestMouseHover(t *testing.T) {
	m := newTestModel(t)
	m.setDataset(testDataset(t))
	m.applyComputed(m.recompute()().(computedMsg))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = next.(Model)

	next, _ = m.Update(tea.MouseMsg{X: 0, Y: headerHeight})
	m = next.(Model)
	require.True(t, m.hoverHasGeo)
	assert.InDelta(t, 0, m.hoverPoint.X, 1e-9)
	assert.InDelta(t, 10, m.hoverPoint.Y, 1e-9)
	assert.Contains(t, m.hoverInfo(), "tile")

	next, _ = m.Update(tea.MouseMsg{X: 0, Y: 0})
	m = next.(Model)
	assert.False(t, m.hovering)
}

func TestView(t *testing.T) {
	m := newTestModel(t)
	assert.Empty(t, m.View())

	m.setDataset(testDataset(t))
	m.applyComputed(m.recompute()().(computedMsg))
	m.showOutlines = true
	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 30})
	m = next.(Model)

	v := m.View()
	assert.Contains(t, v, "honeycomb")
	assert.Contains(t, v, "tiles=hex")
	m = press(t, m, "t")
	assert.Contains(t, m.View(), "score")
}

func TestRenderMap_Size(t *testing.T) {
	m := newTestModel(t)
	m.setDataset(testDataset(t))
	m.applyComputed(m.recompute()().(computedMsg))
	m.showOutlines = true
	out := m.renderMap(30, 10)
	assert.Equal(t, 9, strings.Count(out, "\n"))
}

func TestWorld_DegenerateAxis(t *testing.T) {
	m := newTestModel(t)
	ds, err := geom.ParseWKT("LINESTRING (0 5, 10 5)")
	require.NoError(t, err)
	m.setDataset(ds)

	b, ok := m.world()
	require.True(t, ok)
	assert.Equal(t, 0.0, b.X.Lo)
	assert.Equal(t, 10.0, b.X.Hi)
	assert.Equal(t, 0.0, b.Y.Lo)
	assert.Equal(t, 10.0, b.Y.Hi)

	x, y, ok := m.screenXY(r2.Point{X: 10, Y: 5}, 11, 11)
	require.True(t, ok)
	assert.Equal(t, 10, x)
	assert.Equal(t, 5, y)
}

func TestReport(t *testing.T) {
	m := newTestModel(t)
	assert.Empty(t, m.report())

	ds := testDataset(t)
	m.setDataset(ds)
	assert.Contains(t, m.report(), "tiling    none")

	m.applyComputed(m.recompute()().(computedMsg))
	r := m.report()
	assert.Contains(t, r, "points    6")
	assert.Contains(t, r, "grid      hex grid")
	assert.Contains(t, r, "score")
	lines := strings.Split(strings.TrimSpace(r), "\n")
	assert.Len(t, lines, 6+1+1+m.result.Occupied())
}
