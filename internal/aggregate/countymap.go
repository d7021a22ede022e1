package aggregate

import (
	"sort"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CountyStat is the per-county figure shaded on the choropleth.
type CountyStat struct {
	County       string  `json:"county"`
	Records      int     `json:"fire_count"`
	Loss         float64 `json:"loss"`
	LossBillions float64 `json:"assessed_value_b"`
	Label        string  `json:"economic_loss"`
}

// CountyMap lists every county present in a view, alphabetically.
type CountyMap struct {
	Counties []CountyStat `json:"counties"`
}

// Lookup returns the stat for county, if present.
func (m CountyMap) Lookup(county string) (CountyStat, bool) {
	i := sort.Search(len(m.Counties), func(i int) bool { return m.Counties[i].County >= county })
	if i < len(m.Counties) && m.Counties[i].County == county {
		return m.Counties[i], true
	}
	return CountyStat{}, false
}

// BillionsLabel formats a dollar amount in billions with thousands
// separators, e.g. 1234.5e9 -> "$1,234.50B".
func BillionsLabel(v float64) string {
	return message.NewPrinter(language.English).Sprintf("$%.2fB", v/1e9)
}

// CountyStats counts records and sums loss per county.
func CountyStats(view *domain.DatasetView) CountyMap {
	index := make(map[string]int)
	out := CountyMap{Counties: []CountyStat{}}
	view.Each(func(r *domain.Record) {
		i, ok := index[r.County]
		if !ok {
			i = len(out.Counties)
			index[r.County] = i
			out.Counties = append(out.Counties, CountyStat{County: r.County})
		}
		out.Counties[i].Records++
		if view.HasAssessedValue() {
			out.Counties[i].Loss += r.AssessedValue
		}
	})
	for i := range out.Counties {
		s := &out.Counties[i]
		s.LossBillions = s.Loss / 1e9
		s.Label = BillionsLabel(s.Loss)
	}
	sort.Slice(out.Counties, func(i, j int) bool { return out.Counties[i].County < out.Counties[j].County })
	return out
}
