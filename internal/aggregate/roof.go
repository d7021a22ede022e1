package aggregate

import "github.com/couchcryptid/wildfire-dashboard-service/internal/domain"

// RoofRow is the damage breakdown for one roof construction type.
type RoofRow struct {
	RoofConstruction string        `json:"roof_construction"`
	Total            int           `json:"total"`
	Counts           []DamageCount `json:"counts"`
}

// RoofDistribution lists roof types with the most inspected structures first.
type RoofDistribution struct {
	Rows []RoofRow `json:"rows"`
}

// RoofBreakdown counts records per (roof construction, damage category).
func RoofBreakdown(view *domain.DatasetView) RoofDistribution {
	byRoof := make(map[string][]int)
	totals := make(map[string]int)
	view.Each(func(r *domain.Record) {
		counts, ok := byRoof[r.RoofConstruction]
		if !ok {
			counts = make([]int, len(damageOrder))
			byRoof[r.RoofConstruction] = counts
		}
		if rank := r.Damage.Rank(); rank >= 0 && rank < len(counts) {
			counts[rank]++
		}
		totals[r.RoofConstruction]++
	})

	order := topByTotal(totals, 0)
	rows := make([]RoofRow, 0, len(order))
	for _, roof := range order {
		rows = append(rows, RoofRow{
			RoofConstruction: roof.name,
			Total:            roof.total,
			Counts:           damageCounts(byRoof[roof.name]),
		})
	}
	return RoofDistribution{Rows: rows}
}
