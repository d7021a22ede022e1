package aggregate

import "sort"

// ranked is a named total used to order roof types and counties.
type ranked[T int | float64] struct {
	name  string
	total T
}

// topByTotal orders items by total descending, then name ascending, and keeps
// at most n of them. n <= 0 keeps everything.
func topByTotal[T int | float64](totals map[string]T, n int) []ranked[T] {
	items := make([]ranked[T], 0, len(totals))
	for name, total := range totals {
		items = append(items, ranked[T]{name: name, total: total})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].total != items[j].total {
			return items[i].total > items[j].total
		}
		return items[i].name < items[j].name
	})
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	return items
}
