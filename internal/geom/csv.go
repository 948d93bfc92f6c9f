package geom

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/sahilm/fuzzy"
)

var (
	xAliases = []string{"x", "lon", "lng", "long", "longitude"}
	yAliases = []string{"y", "lat", "latitude"}
)

// LoadCSV reads a CSV file with a header row.
func LoadCSV(path string, opts LoadOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, filepath.Base(path), opts)
}

// ReadCSV reads CSV records from r. The x and y columns are chosen as:
//
//   - a requested name, matched case-insensitively, then fuzzily;
//   - otherwise the first header among x|lon|lng|long|longitude (for x) or
//     y|lat|latitude (for y);
//   - otherwise the first columns whose first data row is numeric.
//
// Rows whose x or y does not parse as a finite number are skipped and
// counted in Dataset.Skipped.
func ReadCSV(r io.Reader, name string, opts LoadOptions) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv %s: %w", name, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w from %s: empty csv", ErrNoPoints, name)
	}
	header := recs[0]
	rows := recs[1:]
	var first []string
	if len(rows) > 0 {
		first = rows[0]
	}

	ix, err := resolveColumn(header, first, opts.XColumn, xAliases, -1)
	if err != nil {
		return nil, fmt.Errorf("csv %s: x: %w", name, err)
	}
	iy, err := resolveColumn(header, first, opts.YColumn, yAliases, ix)
	if err != nil {
		return nil, fmt.Errorf("csv %s: y: %w", name, err)
	}

	d := &Dataset{
		Name:    name,
		Format:  FormatCSV,
		Columns: header,
		XColumn: header[ix],
		YColumn: header[iy],
		Points:  make([]r2.Point, 0, len(rows)),
	}
	for _, row := range rows {
		if ix >= len(row) || iy >= len(row) {
			d.Skipped++
			continue
		}
		x, okX := parseNumber(row[ix])
		y, okY := parseNumber(row[iy])
		if !okX || !okY {
			d.Skipped++
			continue
		}
		d.Points = append(d.Points, r2.Point{X: x, Y: y})
	}
	return d.finish()
}

// resolveColumn returns the index of the column for one axis. taken is the
// index already used by the other axis, or -1.
func resolveColumn(header, first []string, want string, aliases []string, taken int) (int, error) {
	if want = strings.TrimSpace(want); want != "" {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), want) {
				return i, nil
			}
		}
		for _, m := range fuzzy.Find(want, header) {
			if m.Index != taken {
				return m.Index, nil
			}
		}
		return -1, fmt.Errorf("%w: %q", ErrColumnNotFound, want)
	}
	for _, a := range aliases {
		for i, h := range header {
			if i != taken && strings.EqualFold(strings.TrimSpace(h), a) {
				return i, nil
			}
		}
	}
	for i := range header {
		if i == taken || i >= len(first) {
			continue
		}
		if _, ok := parseNumber(first[i]); ok {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no named or numeric column in %v", ErrColumnNotFound, header)
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return v, true
}
