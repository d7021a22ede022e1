package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Record is one inspected structure. Records are immutable once loaded.
type Record struct {
	County           string            `json:"county"`
	IncidentName     string            `json:"incident_name"`
	Year             int               `json:"year"`
	Damage           DamageCategory    `json:"damage"`
	Structure        StructureCategory `json:"structure_category"`
	RoofConstruction string            `json:"roof_construction"`
	AssessedValue    float64           `json:"assessed_improved_value"`
}

// NormalizeName trims a county or incident name and converts it to NFC so
// that names typed into a filter match names read from the dataset.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
