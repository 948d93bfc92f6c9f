package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"honeycomb/internal/discrepancy"
	"honeycomb/internal/geom"
	"honeycomb/internal/tiling"
)

// Report renders a plain-text summary of a scored dataset listing its top
// tiles. g and res may be nil when tiling is off.
func Report(ds *geom.Dataset, g *tiling.Grid, res *discrepancy.Result, p discrepancy.Params, top int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "dataset   %s (%s)\n", ds.Name, ds.Format)
	fmt.Fprintf(&b, "points    %s", humanize.Comma(int64(ds.Len())))
	if ds.Skipped > 0 {
		fmt.Fprintf(&b, " (%s skipped)", humanize.Comma(int64(ds.Skipped)))
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "bounds    [%g, %g] x [%g, %g]\n", ds.Bounds.X.Lo, ds.Bounds.X.Hi, ds.Bounds.Y.Lo, ds.Bounds.Y.Hi)
	if g == nil || res == nil {
		b.WriteString("tiling    none\n")
		return b.String()
	}
	fmt.Fprintf(&b, "grid      %s\n", g)
	fmt.Fprintf(&b, "params    ease-in %.2f, low-count weight %.2f\n", p.EaseIn, p.LowCountWeight)

	occupied := res.Occupied()
	var sum float64
	for i, c := range res.Counts {
		if c > 0 {
			sum += res.Values[i]
		}
	}
	mean := 0.0
	if occupied > 0 {
		mean = sum / float64(occupied)
	}
	fmt.Fprintf(&b, "tiles     %s, %s occupied, max %s points, mean score %.3f\n",
		humanize.Comma(int64(g.CellCount())), humanize.Comma(int64(occupied)),
		humanize.Comma(int64(res.MaxCount)), mean)

	idx := res.Top(top)
	if len(idx) == 0 {
		return b.String()
	}
	fmt.Fprintf(&b, "\n%4s  %8s  %5s  %5s  %9s  %6s\n", "#", "tile", "col", "row", "points", "score")
	for i, t := range idx {
		col, row := g.Coordinate(t)
		fmt.Fprintf(&b, "%4d  %8d  %5d  %5d  %9s  %6.3f\n",
			i+1, t, col, row, humanize.Comma(int64(res.Counts[t])), res.Values[t])
	}
	return b.String()
}

// report summarises the model's current state.
func (m Model) report() string {
	if m.ds == nil {
		return ""
	}
	return Report(m.ds, m.grid, m.result, m.params, 20)
}
