package dashboard

import (
	"context"
	"errors"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/cache"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/domain"
)

// DefaultSessionID is used when a client does not identify its session.
const DefaultSessionID = "default"

// Manager hands out sessions by ID, keeping at most maxSessions in memory.
// Evicted sessions start over from the unfiltered view on their next request.
type Manager struct {
	opts     Options
	sessions *cache.LRU[string, *Session]
}

// NewManager creates a Manager sharing opts across all sessions.
func NewManager(opts Options, maxSessions int) *Manager {
	maxSessions = max(maxSessions, 1)
	m := &Manager{opts: opts}
	m.sessions = cache.NewLRU[string, *Session](maxSessions, cache.WithEvictHook(func(id string, _ *Session) {
		opts.Metrics.ActiveSessions.Dec()
		opts.Logger.Debug("session evicted", "session", id)
	}))
	opts.Metrics.DatasetRecords.Set(float64(opts.Dataset.Len()))
	return m
}

// Session returns the session for id, creating it on first use. The initial
// cycle runs outside the store lock so lookups of other sessions never wait
// on it. Concurrent first requests for one id may each build a session; the
// first one stored wins.
func (m *Manager) Session(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		id = DefaultSessionID
	}
	if s, ok := m.sessions.Get(id); ok {
		return s, nil
	}

	created, err := NewSession(ctx, id, m.opts)
	if err != nil {
		return nil, err
	}
	s, loaded := m.sessions.LoadOrStore(id, created)
	if !loaded {
		m.opts.Metrics.ActiveSessions.Inc()
		m.opts.Logger.Info("session created", "session", id)
	}
	return s, nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int { return m.sessions.Len() }

// FilterOptions lists the values offered by the filter controls.
func (m *Manager) FilterOptions() FilterOptions {
	ds := m.opts.Dataset
	return FilterOptions{
		Counties:            ds.Counties(),
		IncidentNames:       ds.IncidentNames(),
		Years:               ds.YearSpan(),
		DamageCategories:    domain.DamageCategories(),
		StructureCategories: domain.StructureCategories(),
		MapSelectionMode:    m.opts.Reconciler.Mode().String(),
		LiveMapSelection:    m.opts.LiveMapSelection,
	}
}

// CheckReadiness reports whether the dataset holds any records to explore.
func (m *Manager) CheckReadiness(_ context.Context) error {
	if m.opts.Dataset == nil || m.opts.Dataset.Len() == 0 {
		return errors.New("dataset has no records")
	}
	return nil
}
