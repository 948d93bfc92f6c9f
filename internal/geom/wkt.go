package geom

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
)

// wktKinds lists the supported geometry keywords, longest first so that
// MULTIPOINT is not read as POINT.
var wktKinds = []string{
	"MULTILINESTRING", "MULTIPOLYGON", "MULTIPOINT", "LINESTRING", "POLYGON", "POINT",
}

// LoadWKT reads a file holding one or more WKT geometries.
func LoadWKT(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseWKT(string(data), filepath.Base(path))
}

// ParseWKT parses pasted WKT. Geometries are separated by newlines or ';'
// and may span lines. Supported: POINT, MULTIPOINT, LINESTRING, POLYGON and
// their MULTI forms; every vertex is a sample point, and the closing vertex
// of a polygon ring is not repeated. Z and M ordinates are ignored.
func ParseWKT(s string) (*Dataset, error) {
	return parseWKT(s, "pasted wkt")
}

func parseWKT(s, name string) (*Dataset, error) {
	d := &Dataset{Name: name, Format: FormatWKT}
	for _, g := range splitGeometries(s) {
		if err := d.addGeometry(g); err != nil {
			return nil, fmt.Errorf("wkt %s: %w", name, err)
		}
	}
	return d.finish()
}

// splitGeometries splits s at newlines and ';' outside parentheses.
func splitGeometries(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	flush := func(end int) {
		if g := strings.TrimSpace(s[start:end]); g != "" {
			out = append(out, g)
		}
		start = end + 1
	}
	for i, ch := range s {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		case '\n', ';':
			if depth <= 0 {
				flush(i)
			}
		}
	}
	if start < len(s) {
		flush(len(s))
	}
	return out
}

func (d *Dataset) addGeometry(g string) error {
	up := strings.ToUpper(g)
	kind := ""
	for _, k := range wktKinds {
		if strings.HasPrefix(up, k) {
			kind = k
			break
		}
	}
	if kind == "" {
		return fmt.Errorf("unsupported geometry %q", truncate(g, 24))
	}
	if strings.HasSuffix(strings.TrimSpace(up), "EMPTY") {
		return nil
	}
	i := strings.Index(g, "(")
	j := strings.LastIndex(g, ")")
	if i < 0 || j <= i {
		return fmt.Errorf("%s: unbalanced parentheses", strings.ToLower(kind))
	}
	rings := strings.HasSuffix(kind, "POLYGON")
	for _, list := range coordinateLists(g[i+1 : j]) {
		d.addTuples(list, rings)
	}
	return nil
}

// coordinateLists returns the innermost parenthesized groups of body, or
// body itself when it has no parentheses.
func coordinateLists(body string) []string {
	if !strings.ContainsAny(body, "()") {
		return []string{body}
	}
	var out []string
	open := -1
	for i, ch := range body {
		switch ch {
		case '(':
			open = i
		case ')':
			if open >= 0 {
				out = append(out, body[open+1:i])
				open = -1
			}
		}
	}
	return out
}

// addTuples parses "x y[ z[ m]], ..." and appends the points. When ring is
// set, a trailing vertex equal to the first one is dropped.
func (d *Dataset) addTuples(list string, ring bool) {
	var pts []r2.Point
	for _, tup := range strings.Split(list, ",") {
		parts := strings.Fields(tup)
		if len(parts) < 2 {
			if len(parts) > 0 {
				d.Skipped++
			}
			continue
		}
		x, err1 := strconv.ParseFloat(parts[0], 64)
		y, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil || !finite(x) || !finite(y) {
			d.Skipped++
			continue
		}
		pts = append(pts, r2.Point{X: x, Y: y})
	}
	if ring && len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	d.Points = append(d.Points, pts...)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
