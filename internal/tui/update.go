package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"honeycomb/internal/geom"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

// frame is the screen layout shared by View and mouse handling.
type frame struct {
	contentW, contentH int
	mapX, mapY         int
	mapW, mapH         int
}

func (m Model) frame() frame {
	sw := 0
	if m.showSidebar {
		sw = sidebarWidth
	}
	f := frame{
		contentW: max(10, m.width),
		contentH: max(4, m.height-headerHeight-footerHeight),
		mapY:     headerHeight,
	}
	f.mapW = max(10, f.contentW-sw-1)
	f.mapH = f.contentH
	if m.showSidebar {
		f.mapX = sw + 1
	}
	return f
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case computedMsg:
		m.applyComputed(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		f := m.frame()
		m.mapW, m.mapH = f.mapW, f.mapH
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, f.contentH-2)
		}
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "1":
			m.showPoints = !m.showPoints
			m.status = fmt.Sprintf("points: %v", m.showPoints)
		case "2":
			m.showShading = !m.showShading
			m.status = fmt.Sprintf("shading: %v", m.showShading)
		case "3":
			m.showOutlines = !m.showOutlines
			m.status = fmt.Sprintf("outlines: %v", m.showOutlines)
			if m.showOutlines && m.grid != nil && m.grid.CellCount() > maxOutlinedTiles {
				m.status = fmt.Sprintf("outlines: too many tiles (%s)", humanize.Comma(int64(m.grid.CellCount())))
			}
		case "l":
			// toggle all layers
			all := m.showPoints && m.showShading && m.showOutlines
			m.showPoints = !all
			m.showShading = !all
			m.showOutlines = !all
			m.status = fmt.Sprintf("layers: pts=%v shade=%v grid=%v", m.showPoints, m.showShading, m.showOutlines)
		case "s":
			cmd = m.cycleShape()
		case "[":
			cmd = m.scaleTiles(1 / tileFractionStep)
		case "]":
			cmd = m.scaleTiles(tileFractionStep)
		case "e":
			p := m.params
			p.EaseIn += easeInStep
			cmd = m.setParams(p)
		case "E":
			p := m.params
			p.EaseIn -= easeInStep
			cmd = m.setParams(p)
		case "w":
			p := m.params
			p.LowCountWeight += weightStep
			cmd = m.setParams(p)
		case "W":
			p := m.params
			p.LowCountWeight -= weightStep
			cmd = m.setParams(p)
		case "t":
			m.showTiles = !m.showTiles
			if m.showTiles && (m.result == nil || m.result.Occupied() == 0) {
				m.showTiles = false
				m.status = "no scored tiles"
			}
		case "y":
			m.copyReport()
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > 0.05 {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "tab":
			m.showSidebar = !m.showSidebar
			f := m.frame()
			m.mapW, m.mapH = f.mapW, f.mapH
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(sidebarWidth-2, f.contentH-2)
			}
		case "p":
			m.pasteMode = true
			m.ta.SetValue("")
			m.status = "paste mode"
			m.ta.Focus()
		case "h":
			m.helpVisible = !m.helpVisible
		case "i":
			m.inspect()
		case "esc":
			m.inspectPopup = ""
			m.showTiles = false
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					cmd = m.loadPath(it.path)
				}
			}
		case "up", "down":
			if m.showTiles {
				m.tbl, cmd = m.tbl.Update(msg)
				return m, cmd
			}
			if msg.String() == "up" {
				m.offsetY -= 1
			} else {
				m.offsetY += 1
			}
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		f := m.frame()
		cx, cy := msg.X, msg.Y
		if cx >= f.mapX && cx < f.mapX+f.mapW && cy >= f.mapY && cy < f.mapY+f.mapH {
			m.hovering = true
			m.hoverCellX = cx - f.mapX
			m.hoverCellY = cy - f.mapY
			m.hoverPoint, m.hoverHasGeo = m.cellToWorld(m.hoverCellX, m.hoverCellY, f.mapW, f.mapH)
		} else {
			m.hovering = false
			m.hoverHasGeo = false
		}
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var lcmd tea.Cmd
		m.l, lcmd = m.l.Update(msg)
		return m, tea.Batch(cmd, lcmd)
	}
	return m, cmd
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.status = "view mode"
		m.ta.Blur()
		return m, nil
	case "enter":
		w := strings.TrimSpace(m.ta.Value())
		if w == "" {
			m.status = "paste: empty"
			return m, nil
		}
		ds, err := geom.ParseWKT(w)
		if err != nil {
			m.status = "wkt error: " + err.Error()
			return m, nil
		}
		m.selPath = ""
		m.pasteMode = false
		m.ta.Blur()
		return m, m.setDataset(ds)
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// inspect fills the popup with the point nearest the viewport centre and
// the tile holding it.
func (m *Model) inspect() {
	p, ok := m.inspectNearest()
	if !ok {
		m.inspectPopup = "no point nearby"
		m.status = m.inspectPopup
		return
	}
	name := m.ds.Name
	if m.selPath != "" {
		name = filepath.Base(m.selPath)
	}
	b := m.ds.Bounds
	meta := []string{
		fmt.Sprintf("name: %s", name),
		fmt.Sprintf("format: %s", m.ds.Format),
		fmt.Sprintf("bounds: [%.5g, %.5g, %.5g, %.5g]", b.X.Lo, b.Y.Lo, b.X.Hi, b.Y.Hi),
		fmt.Sprintf("points: %s", humanize.Comma(int64(m.ds.Len()))),
		fmt.Sprintf("nearest: x=%.6g y=%.6g", p.X, p.Y),
	}
	if m.ds.XColumn != "" {
		meta = append(meta, fmt.Sprintf("columns: x=%s y=%s", m.ds.XColumn, m.ds.YColumn))
	}
	if t := m.tileAt(p); t >= 0 {
		col, row := m.grid.Coordinate(t)
		meta = append(meta,
			fmt.Sprintf("tiling: %s, cell %.4g", m.grid.Kind(), m.grid.CellSize),
			fmt.Sprintf("tile: %d (col %d, row %d)", t, col, row),
			fmt.Sprintf("tile points: %s of max %s", humanize.Comma(int64(m.result.Counts[t])), humanize.Comma(int64(m.result.MaxCount))),
			fmt.Sprintf("score: %.4f", m.result.Values[t]),
		)
	}
	m.inspectPopup = strings.Join(meta, "\n")
	m.status = "inspect popup"
}

// copyReport puts the report on the system clipboard.
func (m *Model) copyReport() {
	text := m.report()
	if text == "" {
		m.status = "nothing to copy"
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.status = "copy error: " + err.Error()
		return
	}
	m.status = "report copied to clipboard"
}
