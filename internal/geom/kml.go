package geom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
)

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPlacemark struct {
	Point *kmlPoint   `xml:"Point"`
	Multi []kmlPoint `xml:"MultiGeometry>Point"`
}

// LoadKML extracts Point coordinates from a KML file.
func LoadKML(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadKML(f, filepath.Base(path))
}

// ReadKML collects the Points of every Placemark in r, at any depth of
// Document and Folder nesting, including Points inside a MultiGeometry.
// KML coordinates are "lon,lat[,alt]"; altitude is ignored.
func ReadKML(r io.Reader, name string) (*Dataset, error) {
	d := &Dataset{Name: name, Format: FormatKML}
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("kml %s: %w", name, err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Placemark" {
			continue
		}
		var pm kmlPlacemark
		if err := dec.DecodeElement(&pm, &se); err != nil {
			return nil, fmt.Errorf("kml %s: %w", name, err)
		}
		if pm.Point != nil {
			d.addKMLCoordinates(pm.Point.Coordinates)
		}
		for _, p := range pm.Multi {
			d.addKMLCoordinates(p.Coordinates)
		}
	}
	return d.finish()
}

// addKMLCoordinates parses whitespace-separated "lon,lat[,alt]" tuples.
func (d *Dataset) addKMLCoordinates(s string) {
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			d.Skipped++
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil || !finite(lon) || !finite(lat) {
			d.Skipped++
			continue
		}
		d.Points = append(d.Points, r2.Point{X: lon, Y: lat})
	}
}
