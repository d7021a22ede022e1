package aggregate

import "github.com/couchcryptid/wildfire-dashboard-service/internal/domain"

// StructureCount is the number of records of one structure category.
type StructureCount struct {
	Category domain.StructureCategory `json:"category"`
	Count    int                      `json:"count"`
}

// StructureRow is the structure mix of one county.
type StructureRow struct {
	County string           `json:"county"`
	Total  int              `json:"total"`
	Counts []StructureCount `json:"counts"`
}

// StructureByCounty holds the busiest counties, most records first.
type StructureByCounty struct {
	Counties []StructureRow `json:"counties"`
}

// StructureCounts counts records per (county, structure category) and keeps
// the topN counties by total count. Ties go to the alphabetically first
// county. Counties past the cutoff are dropped, not bucketed.
func StructureCounts(view *domain.DatasetView, topN int) StructureByCounty {
	categories := domain.StructureCategories()
	byCounty := make(map[string][]int)
	totals := make(map[string]int)
	view.Each(func(r *domain.Record) {
		counts, ok := byCounty[r.County]
		if !ok {
			counts = make([]int, len(categories))
			byCounty[r.County] = counts
		}
		if rank := r.Structure.Rank(); rank >= 0 && rank < len(counts) {
			counts[rank]++
		}
		totals[r.County]++
	})

	top := topByTotal(totals, topN)
	rows := make([]StructureRow, 0, len(top))
	for _, county := range top {
		counts := byCounty[county.name]
		row := StructureRow{County: county.name, Total: county.total, Counts: make([]StructureCount, 0, len(counts))}
		for _, c := range categories {
			if n := counts[c.Rank()]; n > 0 {
				row.Counts = append(row.Counts, StructureCount{Category: c, Count: n})
			}
		}
		rows = append(rows, row)
	}
	return StructureByCounty{Counties: rows}
}
