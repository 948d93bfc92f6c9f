package geom

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/golang/geo/r2"
)

var (
	// ErrNoPoints is returned when an input holds no parseable point.
	ErrNoPoints = errors.New("geom: no points parsed")
	// ErrColumnNotFound is returned when a CSV has no column usable as x or y.
	ErrColumnNotFound = errors.New("geom: column not found")
	// ErrUnsupportedFormat is returned for file extensions Load does not read.
	ErrUnsupportedFormat = errors.New("geom: unsupported format")
)

// Format is the encoding of a point source.
type Format int

const (
	FormatCSV Format = iota
	FormatWKT
	FormatKML
	FormatGeoJSON
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatWKT:
		return "wkt"
	case FormatKML:
		return "kml"
	case FormatGeoJSON:
		return "geojson"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".wkt":
		return FormatWKT, nil
	case ".kml":
		return FormatKML, nil
	case ".geojson", ".json":
		return FormatGeoJSON, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Supported reports whether Load can read path.
func Supported(path string) bool {
	_, err := FormatOf(path)
	return err == nil
}

// Dataset is the set of sample points handed to the tiling core.
type Dataset struct {
	// Name is the base name of the source file, or a label for pasted input.
	Name   string
	Format Format
	// Columns is the CSV header; nil for other formats.
	Columns []string
	// XColumn and YColumn name the CSV columns the points were read from.
	XColumn, YColumn string
	Points           []r2.Point
	// Bounds is the bounding box of Points.
	Bounds r2.Rect
	// Skipped counts rows or tuples that could not be parsed.
	Skipped int
}

// Len returns the number of points.
func (d *Dataset) Len() int { return len(d.Points) }

func (d *Dataset) String() string {
	return fmt.Sprintf("%s (%s, %d points)", d.Name, d.Format, len(d.Points))
}

// finish computes Bounds and rejects a dataset without points.
func (d *Dataset) finish() (*Dataset, error) {
	if len(d.Points) == 0 {
		return nil, fmt.Errorf("%w from %s", ErrNoPoints, d.Name)
	}
	d.Bounds = BoundsOf(d.Points)
	return d, nil
}

// BoundsOf returns the bounding box of pts; r2.EmptyRect for none.
func BoundsOf(pts []r2.Point) r2.Rect {
	if len(pts) == 0 {
		return r2.EmptyRect()
	}
	return r2.RectFromPoints(pts...)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// LoadOptions select the CSV columns holding x and y. Empty names pick
// columns automatically. Other formats ignore them.
type LoadOptions struct {
	XColumn, YColumn string
}

// Load reads the point source at path, choosing the reader by extension.
func Load(path string, opts LoadOptions) (*Dataset, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatCSV:
		return LoadCSV(path, opts)
	case FormatWKT:
		return LoadWKT(path)
	case FormatKML:
		return LoadKML(path)
	default:
		return LoadGeoJSON(path)
	}
}
