package domain

// DatasetView is the subset of a Dataset selected by an applied FilterState.
// It references the dataset's records and is never mutated after Apply.
type DatasetView struct {
	dataset *Dataset
	filter  FilterState
	rows    []*Record
}

// Apply selects the records matching every predicate of f. The predicates
// commute, so they are evaluated together in a single pass.
func Apply(ds *Dataset, f FilterState) *DatasetView {
	f = f.Clone()
	checkYears := f.Years != ds.YearSpan()
	counties := setIndex(f.Counties)
	incidents := setIndex(f.IncidentNames)

	rows := make([]*Record, 0, len(ds.records))
	for i := range ds.records {
		r := &ds.records[i]
		if checkYears && !f.Years.Contains(r.Year) {
			continue
		}
		if counties != nil {
			if _, ok := counties[r.County]; !ok {
				continue
			}
		}
		if incidents != nil {
			if _, ok := incidents[r.IncidentName]; !ok {
				continue
			}
		}
		rows = append(rows, r)
	}
	return &DatasetView{dataset: ds, filter: f, rows: rows}
}

// Len returns the number of records in the view.
func (v *DatasetView) Len() int { return len(v.rows) }

// Empty reports whether no record matched.
func (v *DatasetView) Empty() bool { return len(v.rows) == 0 }

// Filter returns the filter the view was built from.
func (v *DatasetView) Filter() FilterState { return v.filter.Clone() }

// Dataset returns the dataset the view selects from.
func (v *DatasetView) Dataset() *Dataset { return v.dataset }

// HasAssessedValue reports whether loss values are available for the view.
func (v *DatasetView) HasAssessedValue() bool { return v.dataset.hasAssessedValue }

// Each calls fn for every record in dataset order. fn must not modify the record.
func (v *DatasetView) Each(fn func(r *Record)) {
	for _, r := range v.rows {
		fn(r)
	}
}

// Records returns copies of the records in the view.
func (v *DatasetView) Records() []Record {
	out := make([]Record, len(v.rows))
	for i, r := range v.rows {
		out[i] = *r
	}
	return out
}
