package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	f := m.frame()

	// Update list size with accurate content height when sidebar visible
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, f.contentH-2)
	}

	// Header
	header := titleStyle.Render(" honeycomb ─ tile discrepancy explorer ")
	if m.ds != nil {
		header += dimStyle.Render(fmt.Sprintf("  %s  %s", m.ds.Name, m.settings()))
	}
	header = lipgloss.NewStyle().Width(f.contentW).Padding(0).MaxHeight(headerHeight).Render(header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var mapView string
	if m.showTiles {
		// Render the tile table centered in the map area
		maxW := min(f.mapW, max(32, m.tileWidth()))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(f.mapH-2, 20))
		tilesBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(f.mapW, f.mapH, lipgloss.Center, lipgloss.Center, tilesBox)
	} else {
		var canvas string
		if m.pasteMode {
			// size textarea to map area
			m.ta.SetWidth(f.mapW)
			m.ta.SetHeight(min(f.mapH, 12))
			canvas = m.ta.View()
		} else {
			canvas = m.renderMap(f.mapW, f.mapH)
		}
		mapView = lipgloss.NewStyle().Width(f.mapW).Height(f.mapH).Render(canvas)
	}

	// Build inspect popup box (center-left overlay, not in map column)
	popup := ""
	if m.inspectPopup != "" && !m.showTiles {
		maxPopupW := max(20, min(48, f.contentW/2))
		box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MaxWidth(maxPopupW).Render(m.inspectPopup)
		popup = lipgloss.Place(f.contentW, f.contentH, lipgloss.Left, lipgloss.Center, box)
	}

	// Body row
	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	// Footer / help
	help := m.renderHelp()
	status := m.status
	if m.computing {
		status += "  computing..."
	}
	statusView := dimStyle.Render(" " + status + " ")
	// hovered point and tile at bottom-right
	coords := ""
	if m.hoverHasGeo {
		coords = dimStyle.Render("  " + m.hoverInfo() + "  ")
	}
	var legend string
	if m.showShading && m.result != nil {
		legend = " " + m.pal.legend()
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, statusView, legend)
	spacerW := max(0, f.contentW-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Width(f.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right)),
		lipgloss.NewStyle().Width(f.contentW).MaxHeight(1).Render(help),
	)

	// Compose UI with popup overlay between header and body
	ui := lipgloss.JoinVertical(lipgloss.Left, header, popup, body, footer)
	return appStyle.Width(f.contentW).Height(m.height).Render(ui)
}

// settings summarises the tiling controls for the header.
func (m Model) settings() string {
	return fmt.Sprintf("tiles=%s  size=%.3g  ease=%.2f  weight=%.2f",
		m.shapeName(), m.tileFraction, m.params.EaseIn, m.params.LowCountWeight)
}

// hoverInfo describes the data point under the mouse and its tile.
func (m Model) hoverInfo() string {
	s := fmt.Sprintf("x=%.5g y=%.5g", m.hoverPoint.X, m.hoverPoint.Y)
	t := m.tileAt(m.hoverPoint)
	if t < 0 {
		return s
	}
	col, row := m.grid.Coordinate(t)
	s += fmt.Sprintf("  tile %d (%d,%d)  %s pts", t, col, row, humanize.Comma(int64(m.result.Counts[t])))
	if m.result.Counts[t] > 0 {
		s += fmt.Sprintf("  score %.3f", m.result.Values[t])
	}
	return s
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"s shape",
		"[/] size",
		"e/E ease",
		"w/W weight",
		"1/2/3 layers",
		"t tiles",
		"y copy",
		"Tab files",
		"p paste",
		"i inspect",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
