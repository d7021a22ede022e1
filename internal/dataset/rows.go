package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/domain"
)

// Stats reports how many source rows became records and why the rest were dropped.
type Stats struct {
	Format         string `json:"format"`
	Rows           int    `json:"rows"`
	Loaded         int    `json:"loaded"`
	SkippedDamage  int    `json:"skipped_damage"`
	SkippedRoof    int    `json:"skipped_roof"`
	SkippedInvalid int    `json:"skipped_invalid"`
	HasValue       bool   `json:"has_assessed_value"`
}

// Skipped returns the total number of dropped rows.
func (s Stats) Skipped() int { return s.SkippedDamage + s.SkippedRoof + s.SkippedInvalid }

// skipReason classifies why a source row did not become a record.
type skipReason int

const (
	keep skipReason = iota
	skipDamage
	skipRoof
	skipInvalid
)

// FromRows builds a Dataset from a header and its data rows. Rows whose
// damage is unusable ("Inaccessible", "Unknown", blank) or whose roof
// construction is blank are skipped, as are rows with an unreadable year,
// structure category or value.
func FromRows(header []string, rows [][]string) (*domain.Dataset, Stats, error) {
	s, err := resolveSchema(header)
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{HasValue: s.has(colValue)}
	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		stats.Rows++
		r, reason := parseRow(s, row)
		switch reason {
		case skipDamage:
			stats.SkippedDamage++
		case skipRoof:
			stats.SkippedRoof++
		case skipInvalid:
			stats.SkippedInvalid++
		default:
			records = append(records, r)
		}
	}
	stats.Loaded = len(records)

	var opts []domain.DatasetOption
	if !stats.HasValue {
		opts = append(opts, domain.WithoutAssessedValue())
	}
	return domain.NewDataset(records, opts...), stats, nil
}

func parseRow(s schema, row []string) (domain.Record, skipReason) {
	damage, err := domain.ParseDamageCategory(s.get(row, colDamage))
	if err != nil {
		return domain.Record{}, skipDamage
	}
	roof := s.get(row, colRoof)
	if roof == "" {
		return domain.Record{}, skipRoof
	}
	structure, err := domain.ParseStructureCategory(s.get(row, colStructure))
	if err != nil {
		return domain.Record{}, skipInvalid
	}
	year, err := parseYear(s, row)
	if err != nil {
		return domain.Record{}, skipInvalid
	}
	value, err := parseValue(s.get(row, colValue))
	if err != nil {
		return domain.Record{}, skipInvalid
	}

	county := s.get(row, colCounty)
	if county == "" {
		county = "Unknown"
	}
	return domain.Record{
		County:           county,
		IncidentName:     s.get(row, colIncident),
		Year:             year,
		Damage:           damage,
		Structure:        structure,
		RoofConstruction: roof,
		AssessedValue:    value,
	}, keep
}

// dateLayouts are the start date formats seen in DINS exports and their
// spreadsheet and database re-saves.
var dateLayouts = []string{
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"01-02-06",
}

func parseYear(s schema, row []string) (int, error) {
	if raw := s.get(row, colYear); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("year %q: %w", raw, err)
		}
		return int(f), nil
	}
	raw := s.get(row, colStartDate)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Year(), nil
		}
	}
	return 0, fmt.Errorf("incident start date %q: unrecognized format", raw)
}

// parseValue reads a dollar amount, tolerating "$" and thousands separators.
// Blank values count as zero.
func parseValue(raw string) (float64, error) {
	raw = strings.NewReplacer("$", "", ",", "").Replace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("assessed value %q: %w", raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("assessed value %q: not a finite number", raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("assessed value %v: negative", v)
	}
	return v, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
