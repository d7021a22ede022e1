// Package aggregate turns a filtered DatasetView into the chart-ready tables
// the dashboard renders. Every routine accepts an empty view and returns a
// well-formed empty result.
package aggregate

import (
	"fmt"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/domain"
)

// Kind names one derived product of a view.
type Kind string

const (
	KindDamage     Kind = "damage"
	KindRoof       Kind = "roof"
	KindStructure  Kind = "structure"
	KindTimeSeries Kind = "timeseries"
	KindTotalLoss  Kind = "total_loss"
	KindCountyMap  Kind = "county_map"
)

// Kinds lists every product in the order ComputeAll produces them.
func Kinds() []Kind {
	return []Kind{KindDamage, KindRoof, KindStructure, KindTimeSeries, KindTotalLoss, KindCountyMap}
}

// Results holds every product computed from one view.
type Results struct {
	Rows       int                `json:"rows"`
	Damage     DamageDistribution `json:"damage"`
	Roof       RoofDistribution   `json:"roof"`
	Structure  StructureByCounty  `json:"structure"`
	TimeSeries LossTimeSeries     `json:"timeseries"`
	TotalLoss  TotalLoss          `json:"total_loss"`
	CountyMap  CountyMap          `json:"county_map"`
}

// Aggregate computes a single product. topN bounds the county-ranked kinds.
func Aggregate(view *domain.DatasetView, kind Kind, topN int) (any, error) {
	switch kind {
	case KindDamage:
		return DamageBreakdown(view), nil
	case KindRoof:
		return RoofBreakdown(view), nil
	case KindStructure:
		return StructureCounts(view, topN), nil
	case KindTimeSeries:
		return LossOverTime(view, topN), nil
	case KindTotalLoss:
		return SumLoss(view), nil
	case KindCountyMap:
		return CountyStats(view), nil
	default:
		return nil, fmt.Errorf("unknown aggregate kind %q", kind)
	}
}
