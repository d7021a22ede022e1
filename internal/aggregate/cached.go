package aggregate

import (
	"context"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/cache"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/domain"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/observability"
)

// Cached wraps a Computer with an in-memory LRU keyed by the view's filter.
// The dataset is immutable, so a filter always maps to the same results.
// Cached results are shared between callers and must be treated as read-only.
type Cached struct {
	inner   Computer
	cache   *cache.LRU[string, Results]
	metrics *observability.Metrics
}

// NewCached creates a cache decorator around a Computer.
func NewCached(inner Computer, maxEntries int, metrics *observability.Metrics) *Cached {
	return &Cached{
		inner:   inner,
		cache:   cache.NewLRU[string, Results](maxEntries),
		metrics: metrics,
	}
}

func (c *Cached) ComputeAll(ctx context.Context, view *domain.DatasetView) (Results, error) {
	key := view.Filter().Key()
	if res, ok := c.cache.Get(key); ok {
		c.metrics.ResultCache.WithLabelValues("hit").Inc()
		return res, nil
	}
	c.metrics.ResultCache.WithLabelValues("miss").Inc()

	res, err := c.inner.ComputeAll(ctx, view)
	if err != nil {
		return Results{}, err
	}
	c.cache.Put(key, res)
	return res, nil
}
