package dashboard

import (
	"encoding/json"
	"time"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/aggregate"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/domain"
)

// Snapshot is the immutable outcome of one cycle. A session swaps whole
// snapshots, so readers never see a filter from one cycle paired with
// results from another.
type Snapshot struct {
	Seq        uint64             `json:"seq"`
	Session    string             `json:"session"`
	Trigger    string             `json:"trigger"`
	Applied    domain.FilterState `json:"applied"`
	Rejected   bool               `json:"rejected"`
	Results    aggregate.Results  `json:"results"`
	Map        json.RawMessage    `json:"map,omitempty"`
	ComputedAt time.Time          `json:"computed_at"`
}

// State pairs the staged edits with the current snapshot, so a UI can show
// both the pending and the applied filter values.
type State struct {
	Staged   domain.FilterState `json:"staged"`
	Snapshot *Snapshot          `json:"snapshot"`
}

// FilterOptions lists the values a UI offers in its filter controls.
type FilterOptions struct {
	Counties            []string                   `json:"counties"`
	IncidentNames       []string                   `json:"incident_names"`
	Years               domain.YearRange           `json:"year_range"`
	DamageCategories    []domain.DamageCategory    `json:"damage_categories"`
	StructureCategories []domain.StructureCategory `json:"structure_categories"`
	MapSelectionMode    string                     `json:"map_selection_mode"`
	LiveMapSelection    bool                       `json:"live_map_selection"`
}
