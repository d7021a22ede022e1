package aggregate

import (
	"context"
	"fmt"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Computer produces every aggregate of a view in one step.
type Computer interface {
	ComputeAll(ctx context.Context, view *domain.DatasetView) (Results, error)
}

// step fills one field of Results.
type step struct {
	kind Kind
	run  func(view *domain.DatasetView, topN int, res *Results)
}

var defaultSteps = []step{
	{KindDamage, func(v *domain.DatasetView, _ int, res *Results) { res.Damage = DamageBreakdown(v) }},
	{KindRoof, func(v *domain.DatasetView, _ int, res *Results) { res.Roof = RoofBreakdown(v) }},
	{KindStructure, func(v *domain.DatasetView, n int, res *Results) { res.Structure = StructureCounts(v, n) }},
	{KindTimeSeries, func(v *domain.DatasetView, n int, res *Results) { res.TimeSeries = LossOverTime(v, n) }},
	{KindTotalLoss, func(v *domain.DatasetView, _ int, res *Results) { res.TotalLoss = SumLoss(v) }},
	{KindCountyMap, func(v *domain.DatasetView, _ int, res *Results) { res.CountyMap = CountyStats(v) }},
}

// Dispatcher fans a view out to every aggregation routine.
type Dispatcher struct {
	topN  int
	steps []step
}

// NewDispatcher creates a Dispatcher that ranks counties up to topN.
func NewDispatcher(topN int) *Dispatcher {
	return &Dispatcher{topN: topN, steps: defaultSteps}
}

// TopN returns the county cutoff used by the ranked products.
func (d *Dispatcher) TopN() int { return d.topN }

// ComputeAll runs every routine concurrently against the same view. Either
// every product is returned or, if a routine panics or ctx is done, none is.
func (d *Dispatcher) ComputeAll(ctx context.Context, view *domain.DatasetView) (Results, error) {
	if err := ctx.Err(); err != nil {
		return Results{}, err
	}

	var res Results
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range d.steps {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("aggregate %s: panic: %v", s.kind, r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			s.run(view, d.topN, &res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Results{}, err
	}
	res.Rows = view.Len()
	return res, nil
}
