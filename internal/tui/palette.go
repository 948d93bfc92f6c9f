package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"honeycomb/internal/tiling"
)

// shadeLevels is the number of colours discrepancy values are binned into.
const shadeLevels = 16

// rampStops run from evenly spread (low discrepancy) to clustered.
var rampStops = []string{"#1D3557", "#2A9D8F", "#E9C46A", "#F4A261", "#E63946"}

// palette holds one background style per shade level.
type palette struct {
	colors [shadeLevels]colorful.Color
	styles [shadeLevels]lipgloss.Style
}

func newPalette(stops ...string) *palette {
	cs := make([]colorful.Color, 0, len(stops))
	for _, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			continue
		}
		cs = append(cs, c)
	}
	if len(cs) == 0 {
		cs = []colorful.Color{{R: 0, G: 0, B: 0}, {R: 1, G: 1, B: 1}}
	}

	p := &palette{}
	for i := range shadeLevels {
		c := ramp(cs, float64(i)/float64(shadeLevels-1))
		p.colors[i] = c
		fg := baseFg
		if l, _, _ := c.Lab(); l > 0.6 {
			fg = inkFg
		}
		p.styles[i] = lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Foreground(fg)
	}
	return p
}

// ramp blends between evenly spaced stops in Lab space; t is in [0,1].
func ramp(stops []colorful.Color, t float64) colorful.Color {
	if len(stops) == 1 {
		return stops[0]
	}
	seg := float64(len(stops)-1) * t
	i := tiling.ClampIndex(int(seg), len(stops)-2)
	return stops[i].BlendLab(stops[i+1], seg-float64(i)).Clamped()
}

// level bins a discrepancy value into [0, shadeLevels).
func (p *palette) level(v float64) int {
	return tiling.ClampIndex(tiling.MapInterval(v, 0, 1, shadeLevels), shadeLevels-1)
}

func (p *palette) style(level int) lipgloss.Style { return p.styles[level] }

// legend renders the ramp as a strip of coloured cells.
func (p *palette) legend() string {
	out := ""
	for i := range shadeLevels {
		out += p.styles[i].Render(" ")
	}
	return dimStyle.Render("0 ") + out + dimStyle.Render(" 1")
}
