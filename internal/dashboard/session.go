// Package dashboard owns per-session filter state and runs the
// reconcile, filter and aggregate cycle for every user action.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/aggregate"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/domain"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/observability"
)

// ErrComputeFailed wraps failures of the aggregation step. The session keeps
// its previous snapshot when it is returned.
var ErrComputeFailed = errors.New("compute dashboard results")

// MapRenderer turns county statistics into an encoded map figure.
type MapRenderer interface {
	RenderMap(stats aggregate.CountyMap, selection []string) ([]byte, error)
}

// Publisher ships applied snapshots to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, snap *Snapshot) error
}

// Options holds the collaborators shared by every session.
type Options struct {
	Dataset    *domain.Dataset
	Reconciler *domain.Reconciler
	Computer   aggregate.Computer
	Renderer   MapRenderer // optional
	Publisher  Publisher   // optional

	// LiveMapSelection applies a map selection immediately. When false the
	// selection is staged and folded in by the next Submit.
	LiveMapSelection bool
	PublishTimeout   time.Duration

	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Session is one user's dashboard. Triggers are serialized: a cycle runs to
// completion before the next trigger is accepted.
type Session struct {
	id   string
	opts Options

	mu      sync.Mutex
	staged  domain.FilterState
	seq     uint64
	current atomic.Pointer[Snapshot]
}

// NewSession creates a session and computes its initial, unfiltered snapshot.
func NewSession(ctx context.Context, id string, opts Options) (*Session, error) {
	s := &Session{id: id, opts: opts, staged: domain.DefaultFilterState(opts.Dataset)}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.run(ctx, domain.TriggerReset); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Snapshot returns the most recently applied snapshot.
func (s *Session) Snapshot() *Snapshot { return s.current.Load() }

// State returns the staged filter together with the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Staged: s.staged.Clone(), Snapshot: s.current.Load()}
}

// SelectCounties stages a county set. nil clears the restriction.
func (s *Session) SelectCounties(values []string) State {
	return s.edit(func(f *domain.FilterState) { f.Counties = domain.NewSet(values) })
}

// SelectYearRange stages a year range. It is validated on Submit.
func (s *Session) SelectYearRange(minYear, maxYear int) State {
	return s.edit(func(f *domain.FilterState) { f.Years = domain.YearRange{Min: minYear, Max: maxYear} })
}

// SelectIncidentNames stages an incident set. nil clears the restriction.
func (s *Session) SelectIncidentNames(values []string) State {
	return s.edit(func(f *domain.FilterState) { f.IncidentNames = domain.NewSet(values) })
}

func (s *Session) edit(fn func(*domain.FilterState)) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.staged)
	return State{Staged: s.staged.Clone(), Snapshot: s.current.Load()}
}

// Submit applies the staged edits, folding in any staged map selection.
func (s *Session) Submit(ctx context.Context) (State, error) {
	return s.trigger(ctx, domain.TriggerSubmit)
}

// Reset discards staged edits and restores the unfiltered view.
func (s *Session) Reset(ctx context.Context) (State, error) {
	return s.trigger(ctx, domain.TriggerReset)
}

// MapSelectionChanged records a map selection event. With live map
// selection it runs a cycle right away; otherwise the selection waits for Submit.
func (s *Session) MapSelectionChanged(ctx context.Context, points []domain.SelectionPoint) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.staged.MapSelection = domain.OnMapSelect(points)
	if !s.opts.LiveMapSelection {
		return State{Staged: s.staged.Clone(), Snapshot: s.current.Load()}, nil
	}
	_, err := s.run(ctx, domain.TriggerMapSelect)
	return State{Staged: s.staged.Clone(), Snapshot: s.current.Load()}, err
}

func (s *Session) trigger(ctx context.Context, t domain.Trigger) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.run(ctx, t)
	return State{Staged: s.staged.Clone(), Snapshot: s.current.Load()}, err
}

// run executes one cycle. The caller must hold s.mu.
func (s *Session) run(ctx context.Context, trigger domain.Trigger) (*Snapshot, error) {
	start := time.Now()
	s.seq++
	seq := s.seq

	prev := s.current.Load()
	applied := domain.DefaultFilterState(s.opts.Dataset)
	if prev != nil {
		applied = prev.Applied
	}

	out := s.opts.Reconciler.Reconcile(trigger, s.staged, applied)
	hadSelection := len(s.staged.MapSelection) > 0
	view := domain.Apply(s.opts.Dataset, out.State)

	results, err := s.opts.Computer.ComputeAll(ctx, view)
	if err != nil {
		// The raw selection is consumed even when the cycle fails.
		s.staged.MapSelection = nil
		s.opts.Metrics.Cycles.WithLabelValues(trigger.String(), "failed").Inc()
		s.opts.Logger.Error("dashboard cycle failed",
			"session", s.id, "seq", seq, "trigger", trigger.String(), "error", err)
		return prev, fmt.Errorf("%w: %w", ErrComputeFailed, err)
	}

	snap := &Snapshot{
		Seq:        seq,
		Session:    s.id,
		Trigger:    trigger.String(),
		Applied:    out.State,
		Rejected:   out.Rejected,
		Results:    results,
		Map:        s.renderMap(results.CountyMap, out.State.Counties),
		ComputedAt: domain.Now(),
	}
	if !s.commit(snap) {
		s.opts.Logger.Warn("discarding stale snapshot", "session", s.id, "seq", seq)
		return s.current.Load(), nil
	}
	s.settleStaged(trigger, out)

	outcome := "applied"
	if out.Rejected {
		outcome = "rejected"
		s.opts.Logger.Warn("filter edit rejected, keeping applied state",
			"session", s.id, "seq", seq, "trigger", trigger.String(), "staged_years", s.staged.Years.String())
	}
	if hadSelection && !out.Rejected && trigger != domain.TriggerReset {
		s.opts.Metrics.MapSelections.Inc()
	}
	s.opts.Metrics.Cycles.WithLabelValues(trigger.String(), outcome).Inc()
	s.opts.Metrics.CycleDuration.Observe(time.Since(start).Seconds())
	s.opts.Metrics.ViewRows.Observe(float64(view.Len()))
	s.opts.Logger.Debug("dashboard cycle applied",
		"session", s.id, "seq", seq, "trigger", trigger.String(), "rows", view.Len())

	s.publish(ctx, snap)
	return snap, nil
}

// commit installs snap unless a snapshot from the same or a later cycle is
// already current.
func (s *Session) commit(snap *Snapshot) bool {
	for {
		cur := s.current.Load()
		if cur != nil && cur.Seq >= snap.Seq {
			s.opts.Metrics.StaleSnapshots.Inc()
			return false
		}
		if s.current.CompareAndSwap(cur, snap) {
			return true
		}
	}
}

// settleStaged brings the staged copy in line with what was just applied.
// The raw map selection is always cleared so it cannot be folded in twice.
func (s *Session) settleStaged(trigger domain.Trigger, out domain.Outcome) {
	switch {
	case trigger == domain.TriggerReset:
		s.staged = out.State.Clone()
	case out.Rejected:
		s.staged.MapSelection = nil
	case trigger == domain.TriggerSubmit:
		s.staged = out.State.Clone()
	default:
		s.staged.Counties = domain.NewSet(out.State.Counties)
		s.staged.MapSelection = nil
	}
}

func (s *Session) renderMap(stats aggregate.CountyMap, selection []string) json.RawMessage {
	if s.opts.Renderer == nil {
		return nil
	}
	fig, err := s.opts.Renderer.RenderMap(stats, selection)
	if err != nil {
		s.opts.Logger.Warn("map render failed, serving charts without map", "session", s.id, "error", err)
		return nil
	}
	return fig
}

func (s *Session) publish(ctx context.Context, snap *Snapshot) {
	if s.opts.Publisher == nil {
		return
	}
	timeout := s.opts.PublishTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := s.opts.Publisher.Publish(pubCtx, snap); err != nil {
		s.opts.Metrics.SnapshotPublishes.WithLabelValues("error").Inc()
		s.opts.Logger.Warn("snapshot publish failed", "session", s.id, "seq", snap.Seq, "error", err)
		return
	}
	s.opts.Metrics.SnapshotPublishes.WithLabelValues("success").Inc()
}
