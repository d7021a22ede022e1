package aggregate

import (
	"fmt"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/domain"
)

func viewOf(records []domain.Record, opts ...domain.DatasetOption) *domain.DatasetView {
	ds := domain.NewDataset(records, opts...)
	return domain.Apply(ds, domain.DefaultFilterState(ds))
}

func emptyView() *domain.DatasetView {
	ds := domain.NewDataset([]domain.Record{{County: "Butte", Year: 2018}})
	return domain.Apply(ds, domain.FilterState{Years: ds.YearSpan(), Counties: []string{}})
}

func rec(county string, year int, damage domain.DamageCategory, value float64) domain.Record {
	return domain.Record{
		County:           county,
		IncidentName:     county + " Fire",
		Year:             year,
		Damage:           damage,
		Structure:        domain.SingleResidence,
		RoofConstruction: "Asphalt",
		AssessedValue:    value,
	}
}

// countyRecords produces n records for each county, n taken from counts.
func countyRecords(counts map[string]int) []domain.Record {
	var out []domain.Record
	for county, n := range counts {
		for i := 0; i < n; i++ {
			out = append(out, rec(county, 2018, domain.Destroyed, 1000))
		}
	}
	return out
}

func manyCounties(n int) map[string]int {
	counts := make(map[string]int, n)
	for i := 0; i < n; i++ {
		counts[fmt.Sprintf("County%02d", i)] = i + 1
	}
	return counts
}
