package choropleth

import (
	"encoding/json"
	"fmt"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/aggregate"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Figure is the encoded map: the shaded features, the indices of the
// highlighted ones and the extent to frame.
type Figure struct {
	GeoJSON        *geojson.FeatureCollection `json:"geojson"`
	SelectedPoints []int                      `json:"selected_points"`
	Bounds         [4]float64                 `json:"bounds"`
}

// Renderer draws county statistics onto a fixed set of boundaries.
// It implements dashboard.MapRenderer.
type Renderer struct {
	boundaries *Boundaries
}

// NewRenderer creates a Renderer over b.
func NewRenderer(b *Boundaries) *Renderer {
	return &Renderer{boundaries: b}
}

// Render builds the figure. Every boundary is emitted; counties absent from
// stats carry zero values.
func (r *Renderer) Render(stats aggregate.CountyMap, selection []string) Figure {
	selected := make(map[string]struct{}, len(selection))
	for _, name := range selection {
		selected[name] = struct{}{}
	}

	fig := Figure{
		GeoJSON:        &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, r.boundaries.Len())},
		SelectedPoints: []int{},
		Bounds:         r.boundaries.bounds,
	}
	for i, c := range r.boundaries.counties {
		stat, ok := stats.Lookup(c.Name)
		if !ok {
			stat = aggregate.CountyStat{County: c.Name, Label: aggregate.BillionsLabel(0)}
		}
		_, isSelected := selected[c.Name]
		if isSelected {
			fig.SelectedPoints = append(fig.SelectedPoints, i)
		}
		fig.GeoJSON.Features = append(fig.GeoJSON.Features, &geojson.Feature{
			ID:       c.Name,
			Geometry: c.Geometry,
			Properties: map[string]any{
				"county_name":      c.Name,
				"fire_count":       stat.Records,
				"assessed_value_b": stat.LossBillions,
				"economic_loss":    stat.Label,
				"selected":         isSelected,
			},
		})
	}
	return fig
}

// RenderMap renders and encodes the figure as JSON.
func (r *Renderer) RenderMap(stats aggregate.CountyMap, selection []string) ([]byte, error) {
	data, err := json.Marshal(r.Render(stats, selection))
	if err != nil {
		return nil, fmt.Errorf("encode map figure: %w", err)
	}
	return data, nil
}
