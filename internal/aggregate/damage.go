package aggregate

import "github.com/couchcryptid/wildfire-dashboard-service/internal/domain"

// DamageCount is the number of records in one damage category.
type DamageCount struct {
	Category domain.DamageCategory `json:"category"`
	Count    int                   `json:"count"`
}

// DamageDistribution lists the categories present in a view, in rank order.
type DamageDistribution struct {
	Total  int           `json:"total"`
	Counts []DamageCount `json:"counts"`
}

// DamageBreakdown counts records per damage category. The order follows the
// category rank, never the counts.
func DamageBreakdown(view *domain.DatasetView) DamageDistribution {
	var counts [len(damageOrder)]int
	view.Each(func(r *domain.Record) {
		if rank := r.Damage.Rank(); rank >= 0 && rank < len(counts) {
			counts[rank]++
		}
	})
	return DamageDistribution{Total: view.Len(), Counts: damageCounts(counts[:])}
}

var damageOrder = [...]domain.DamageCategory{
	domain.NoDamage, domain.Affected, domain.Minor, domain.Major, domain.Destroyed,
}

func damageCounts(byRank []int) []DamageCount {
	out := make([]DamageCount, 0, len(byRank))
	for _, c := range damageOrder {
		if n := byRank[c.Rank()]; n > 0 {
			out = append(out, DamageCount{Category: c, Count: n})
		}
	}
	return out
}
