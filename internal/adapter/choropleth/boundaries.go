// Package choropleth joins per-county statistics onto county boundary
// polygons and encodes the result as a GeoJSON map figure.
package choropleth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/domain"
	"github.com/jonas-p/go-shp"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// ErrNoBoundaries is returned when a boundary file yields no usable county shapes.
var ErrNoBoundaries = errors.New("no county boundaries")

// County is one named county shape.
type County struct {
	Name     string
	Geometry geom.T
}

// Boundaries is an immutable, ordered set of county shapes.
type Boundaries struct {
	counties []County
	bounds   [4]float64
}

// NewBoundaries indexes counties. Entries without a name or geometry are dropped.
func NewBoundaries(counties []County) (*Boundaries, error) {
	b := &Boundaries{}
	extent := geom.NewBounds(geom.XY)
	for _, c := range counties {
		name := domain.NormalizeName(c.Name)
		if name == "" || c.Geometry == nil {
			continue
		}
		b.counties = append(b.counties, County{Name: name, Geometry: c.Geometry})
		extent.Extend(c.Geometry)
	}
	if len(b.counties) == 0 {
		return nil, ErrNoBoundaries
	}
	b.bounds = [4]float64{extent.Min(0), extent.Min(1), extent.Max(0), extent.Max(1)}
	return b, nil
}

// Len returns the number of county shapes.
func (b *Boundaries) Len() int { return len(b.counties) }

// Names returns the county names in file order.
func (b *Boundaries) Names() []string {
	out := make([]string, len(b.counties))
	for i, c := range b.counties {
		out[i] = c.Name
	}
	return out
}

// Bounds returns the extent as [minX, minY, maxX, maxY].
func (b *Boundaries) Bounds() [4]float64 { return b.bounds }

// LoadBoundaries reads county shapes from a GeoJSON FeatureCollection
// (.geojson, .json) or an ESRI shapefile (.shp). nameProperty names the
// attribute holding the county name.
func LoadBoundaries(path, nameProperty string) (*Boundaries, error) {
	var (
		counties []County
		err      error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		counties, err = readGeoJSON(path, nameProperty)
	case ".shp":
		counties, err = readShapefile(path, nameProperty)
	default:
		return nil, fmt.Errorf("choropleth: unsupported boundary format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	b, err := NewBoundaries(counties)
	if err != nil {
		return nil, fmt.Errorf("choropleth: %s: %w", path, err)
	}
	return b, nil
}

func readGeoJSON(path, nameProperty string) ([]County, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("choropleth: read %s: %w", path, err)
	}
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("choropleth: decode %s: %w", path, err)
	}

	counties := make([]County, 0, len(fc.Features))
	for _, f := range fc.Features {
		name, _ := f.Properties[nameProperty].(string)
		counties = append(counties, County{Name: name, Geometry: f.Geometry})
	}
	return counties, nil
}

func readShapefile(path, nameProperty string) ([]County, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("choropleth: open shapefile %s: %w", path, err)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := -1
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), nameProperty) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("choropleth: shapefile %s has no %q field", path, nameProperty)
	}

	var counties []County
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		g := polygonToMultiPolygon(poly)
		if g == nil {
			continue
		}
		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		counties = append(counties, County{Name: name, Geometry: g})
	}
	return counties, nil
}

// polygonToMultiPolygon converts a shapefile polygon to a MultiPolygon with
// one polygon per part. Malformed parts are skipped.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}
		if start < 0 || end > int32(len(p.Points)) || start >= end {
			continue
		}

		flat := make([]float64, 0, 2*(end-start))
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
			continue
		}
		if err := mp.Push(poly); err != nil {
			continue
		}
	}
	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
