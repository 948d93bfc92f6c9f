package geom

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/geo/r2"
)

// geoObject is any GeoJSON object; only the members used to reach
// coordinates are decoded.
type geoObject struct {
	Type        string          `json:"type"`
	Features    []geoObject     `json:"features"`
	Geometry    *geoObject      `json:"geometry"`
	Geometries  []geoObject     `json:"geometries"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// LoadGeoJSON reads a GeoJSON file.
func LoadGeoJSON(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGeoJSON(f, filepath.Base(path))
}

// ReadGeoJSON collects every position of every geometry in r: Feature,
// FeatureCollection and GeometryCollection are walked, each vertex of a
// line or polygon is a sample point, and the closing position of a polygon
// ring is not repeated.
func ReadGeoJSON(r io.Reader, name string) (*Dataset, error) {
	var root geoObject
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("geojson %s: %w", name, err)
	}
	d := &Dataset{Name: name, Format: FormatGeoJSON}
	if err := d.walkGeo(&root); err != nil {
		return nil, fmt.Errorf("geojson %s: %w", name, err)
	}
	return d.finish()
}

func (d *Dataset) walkGeo(o *geoObject) error {
	switch o.Type {
	case "FeatureCollection":
		for i := range o.Features {
			if err := d.walkGeo(&o.Features[i]); err != nil {
				return err
			}
		}
	case "Feature":
		if o.Geometry != nil {
			return d.walkGeo(o.Geometry)
		}
	case "GeometryCollection":
		for i := range o.Geometries {
			if err := d.walkGeo(&o.Geometries[i]); err != nil {
				return err
			}
		}
	case "Point":
		var c []float64
		if err := json.Unmarshal(o.Coordinates, &c); err != nil {
			return fmt.Errorf("point: %w", err)
		}
		d.addPosition(c)
	case "MultiPoint", "LineString":
		var c [][]float64
		if err := json.Unmarshal(o.Coordinates, &c); err != nil {
			return fmt.Errorf("%s: %w", o.Type, err)
		}
		d.addPositions(c, false)
	case "MultiLineString", "Polygon":
		var c [][][]float64
		if err := json.Unmarshal(o.Coordinates, &c); err != nil {
			return fmt.Errorf("%s: %w", o.Type, err)
		}
		for _, list := range c {
			d.addPositions(list, o.Type == "Polygon")
		}
	case "MultiPolygon":
		var c [][][][]float64
		if err := json.Unmarshal(o.Coordinates, &c); err != nil {
			return fmt.Errorf("%s: %w", o.Type, err)
		}
		for _, poly := range c {
			for _, ring := range poly {
				d.addPositions(ring, true)
			}
		}
	default:
		return fmt.Errorf("unknown type %q", o.Type)
	}
	return nil
}

func (d *Dataset) addPositions(list [][]float64, ring bool) {
	if ring && len(list) > 1 {
		first, last := list[0], list[len(list)-1]
		if len(first) >= 2 && len(last) >= 2 && first[0] == last[0] && first[1] == last[1] {
			list = list[:len(list)-1]
		}
	}
	for _, c := range list {
		d.addPosition(c)
	}
}

func (d *Dataset) addPosition(c []float64) {
	if len(c) < 2 || !finite(c[0]) || !finite(c[1]) {
		d.Skipped++
		return
	}
	d.Points = append(d.Points, r2.Point{X: c[0], Y: c[1]})
}
