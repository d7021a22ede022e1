package domain

import "sort"

// Dataset is the immutable in-memory table of records, loaded once per process.
type Dataset struct {
	records          []Record
	counties         []string
	incidents        []string
	minYear          int
	maxYear          int
	hasAssessedValue bool
}

// DatasetOption customizes NewDataset.
type DatasetOption func(*Dataset)

// WithoutAssessedValue marks the dataset as loaded without the assessed
// improved value column. Loss aggregations then report their empty sentinel.
func WithoutAssessedValue() DatasetOption {
	return func(d *Dataset) { d.hasAssessedValue = false }
}

// NewDataset copies records into a new Dataset and indexes the distinct
// counties, incident names and year bounds.
func NewDataset(records []Record, opts ...DatasetOption) *Dataset {
	d := &Dataset{
		records:          make([]Record, len(records)),
		hasAssessedValue: true,
	}
	copy(d.records, records)
	for _, opt := range opts {
		opt(d)
	}

	counties := make(map[string]struct{})
	incidents := make(map[string]struct{})
	for i := range d.records {
		r := &d.records[i]
		r.County = NormalizeName(r.County)
		r.IncidentName = NormalizeName(r.IncidentName)
		counties[r.County] = struct{}{}
		incidents[r.IncidentName] = struct{}{}
		if i == 0 || r.Year < d.minYear {
			d.minYear = r.Year
		}
		if i == 0 || r.Year > d.maxYear {
			d.maxYear = r.Year
		}
	}
	d.counties = sortedKeys(counties)
	d.incidents = sortedKeys(incidents)
	return d
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns a copy of every record.
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Counties returns the sorted distinct county names.
func (d *Dataset) Counties() []string { return append([]string(nil), d.counties...) }

// IncidentNames returns the sorted distinct incident names.
func (d *Dataset) IncidentNames() []string { return append([]string(nil), d.incidents...) }

func (d *Dataset) MinYear() int { return d.minYear }
func (d *Dataset) MaxYear() int { return d.maxYear }

// YearSpan is the inclusive range covering every record.
func (d *Dataset) YearSpan() YearRange { return YearRange{Min: d.minYear, Max: d.maxYear} }

// HasAssessedValue reports whether the assessed improved value column was present.
func (d *Dataset) HasAssessedValue() bool { return d.hasAssessedValue }

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
