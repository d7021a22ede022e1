package aggregate

import (
	"sort"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/domain"
)

// Unit is the scale applied to every value of a loss time series.
type Unit struct {
	Name    string  `json:"name"`
	Suffix  string  `json:"suffix"`
	Divisor float64 `json:"divisor"`
}

var (
	UnitDollars  = Unit{Name: "USD", Divisor: 1}
	UnitMillions = Unit{Name: "millions", Suffix: "M", Divisor: 1e6}
	UnitBillions = Unit{Name: "billions", Suffix: "B", Divisor: 1e9}
)

// unitFor picks the unit from the largest single (county, year) sum.
func unitFor(maxValue float64) Unit {
	switch {
	case maxValue >= 1e9:
		return UnitBillions
	case maxValue >= 1e6:
		return UnitMillions
	default:
		return UnitDollars
	}
}

// LossPoint is the summed loss of one county in one year.
type LossPoint struct {
	Year  int     `json:"year"`
	Raw   float64 `json:"raw"`
	Value float64 `json:"value"`
}

// CountySeries is one line of the loss chart.
type CountySeries struct {
	County string      `json:"county"`
	Total  float64     `json:"total"`
	Points []LossPoint `json:"points"`
}

// LossTimeSeries holds per-county yearly losses for the counties with the
// largest total loss, all expressed in Unit.
type LossTimeSeries struct {
	Unit   Unit           `json:"unit"`
	Series []CountySeries `json:"series"`
}

// LossOverTime sums assessed value per (county, year) for the topN counties
// by total loss. A view without loss values yields an empty series in USD.
func LossOverTime(view *domain.DatasetView, topN int) LossTimeSeries {
	out := LossTimeSeries{Unit: UnitDollars, Series: []CountySeries{}}
	if view.Empty() || !view.HasAssessedValue() {
		return out
	}

	byCounty := make(map[string]map[int]float64)
	totals := make(map[string]float64)
	view.Each(func(r *domain.Record) {
		years, ok := byCounty[r.County]
		if !ok {
			years = make(map[int]float64)
			byCounty[r.County] = years
		}
		years[r.Year] += r.AssessedValue
		totals[r.County] += r.AssessedValue
	})

	var peak float64
	for _, county := range topByTotal(totals, topN) {
		series := CountySeries{County: county.name, Total: county.total}
		for year, sum := range byCounty[county.name] {
			series.Points = append(series.Points, LossPoint{Year: year, Raw: sum})
			peak = max(peak, sum)
		}
		sort.Slice(series.Points, func(i, j int) bool { return series.Points[i].Year < series.Points[j].Year })
		out.Series = append(out.Series, series)
	}

	out.Unit = unitFor(peak)
	for i := range out.Series {
		for j := range out.Series[i].Points {
			p := &out.Series[i].Points[j]
			p.Value = p.Raw / out.Unit.Divisor
		}
	}
	return out
}
