package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/aggregate"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SessionIsReusedByID(t *testing.T) {
	m := NewManager(testOptions(t), 4)

	a, err := m.Session(context.Background(), "alice")
	require.NoError(t, err)
	again, err := m.Session(context.Background(), "alice")
	require.NoError(t, err)
	b, err := m.Session(context.Background(), "bob")
	require.NoError(t, err)

	assert.Same(t, a, again)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, m.Len())
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	m := NewManager(testOptions(t), 4)
	a, err := m.Session(context.Background(), "alice")
	require.NoError(t, err)
	b, err := m.Session(context.Background(), "bob")
	require.NoError(t, err)

	a.SelectCounties([]string{"Butte"})
	_, err = a.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Butte"}, a.Snapshot().Applied.Counties)
	assert.Nil(t, b.Snapshot().Applied.Counties)
	assert.Nil(t, b.State().Staged.Counties)
}

func TestManager_BlankIDUsesDefaultSession(t *testing.T) {
	m := NewManager(testOptions(t), 4)
	s, err := m.Session(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionID, s.ID())
}

func TestManager_EvictsLeastRecentlyUsed(t *testing.T) {
	opts := testOptions(t)
	m := NewManager(opts, 2)
	ctx := context.Background()

	first, err := m.Session(ctx, "one")
	require.NoError(t, err)
	_, err = m.Session(ctx, "two")
	require.NoError(t, err)
	_, err = m.Session(ctx, "three")
	require.NoError(t, err)

	assert.Equal(t, 2, m.Len())
	assert.InDelta(t, 2, testutil.ToFloat64(opts.Metrics.ActiveSessions), 0)

	recreated, err := m.Session(ctx, "one")
	require.NoError(t, err)
	assert.NotSame(t, first, recreated, "evicted session starts over")
	assert.Equal(t, uint64(1), recreated.Snapshot().Seq)
}

func TestManager_FilterOptions(t *testing.T) {
	opts := testOptions(t, func(o *Options) {
		o.Reconciler = domain.NewReconciler(o.Dataset, domain.MergeReplace)
		o.LiveMapSelection = false
	})
	m := NewManager(opts, 4)

	got := m.FilterOptions()
	assert.Equal(t, []string{"Butte", "Lake", "Napa", "Sonoma"}, got.Counties)
	assert.Equal(t, []string{"Atlas", "Camp", "Tubbs", "Valley"}, got.IncidentNames)
	assert.Equal(t, domain.YearRange{Min: 2015, Max: 2018}, got.Years)
	assert.Len(t, got.DamageCategories, 5)
	assert.Len(t, got.StructureCategories, 7)
	assert.Equal(t, "replace", got.MapSelectionMode)
	assert.False(t, got.LiveMapSelection)
	assert.InDelta(t, 5, testutil.ToFloat64(opts.Metrics.DatasetRecords), 0)
}

func TestManager_CheckReadiness(t *testing.T) {
	m := NewManager(testOptions(t), 4)
	require.NoError(t, m.CheckReadiness(context.Background()))

	empty := testOptions(t, func(o *Options) {
		o.Dataset = domain.NewDataset(nil)
		o.Reconciler = domain.NewReconciler(o.Dataset, domain.MergeUnion)
	})
	assert.Error(t, NewManager(empty, 4).CheckReadiness(context.Background()))
}

// gatedComputer blocks ComputeAll while armed until release is closed.
type gatedComputer struct {
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (g *gatedComputer) ComputeAll(ctx context.Context, view *domain.DatasetView) (aggregate.Results, error) {
	if g.armed.Load() {
		g.entered <- struct{}{}
		<-g.release
	}
	return aggregate.NewDispatcher(10).ComputeAll(ctx, view)
}

func TestManager_SessionCreationDoesNotBlockLookups(t *testing.T) {
	gate := &gatedComputer{entered: make(chan struct{}, 1), release: make(chan struct{})}
	m := NewManager(testOptions(t, func(o *Options) { o.Computer = gate }), 4)
	ctx := context.Background()

	existing, err := m.Session(ctx, "fast")
	require.NoError(t, err)

	gate.armed.Store(true)
	slowDone := make(chan error, 1)
	go func() {
		_, err := m.Session(ctx, "slow")
		slowDone <- err
	}()
	<-gate.entered

	got := make(chan *Session, 1)
	go func() {
		s, _ := m.Session(ctx, "fast")
		got <- s
	}()
	select {
	case s := <-got:
		assert.Same(t, existing, s)
	case <-time.After(2 * time.Second):
		t.Fatal("lookup of an existing session waited on another session's creation")
	}

	close(gate.release)
	require.NoError(t, <-slowDone)
	assert.Equal(t, 2, m.Len())
}

func TestManager_ConcurrentFirstRequestsShareOneSession(t *testing.T) {
	opts := testOptions(t)
	m := NewManager(opts, 4)

	const callers = 8
	sessions := make([]*Session, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := m.Session(context.Background(), "shared")
			assert.NoError(t, err)
			sessions[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range sessions[1:] {
		assert.Same(t, sessions[0], s)
	}
	assert.Equal(t, 1, m.Len())
	assert.InDelta(t, 1, testutil.ToFloat64(opts.Metrics.ActiveSessions), 0)
}
