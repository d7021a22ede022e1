package aggregate

import "github.com/couchcryptid/wildfire-dashboard-service/internal/domain"

// NoDataLabel is shown in place of a money label when nothing can be summed.
const NoDataLabel = "No Data Available"

// TotalLoss is the summed assessed improved value of a view. Empty marks the
// zero sentinel returned for an empty view or a dataset without loss values,
// so callers can tell it apart from a real zero.
type TotalLoss struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
	Empty bool    `json:"empty"`
}

// SumLoss totals the assessed improved value over the view.
func SumLoss(view *domain.DatasetView) TotalLoss {
	if view.Empty() || !view.HasAssessedValue() {
		return TotalLoss{Label: NoDataLabel, Empty: true}
	}
	var total float64
	view.Each(func(r *domain.Record) { total += r.AssessedValue })
	return TotalLoss{Value: total, Label: domain.FormatMoney(total)}
}
