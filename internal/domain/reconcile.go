package domain

import (
	"fmt"
	"strings"
)

// Trigger is the user action that starts a reconciliation cycle.
type Trigger int

const (
	TriggerSubmit Trigger = iota + 1
	TriggerReset
	TriggerMapSelect
)

func (t Trigger) String() string {
	switch t {
	case TriggerSubmit:
		return "submit"
	case TriggerReset:
		return "reset"
	case TriggerMapSelect:
		return "map_select"
	default:
		return fmt.Sprintf("Trigger(%d)", int(t))
	}
}

// MergeMode decides how a map selection combines with the staged county set.
type MergeMode int

const (
	// MergeUnion adds the selected counties to the staged ones.
	MergeUnion MergeMode = iota
	// MergeReplace swaps the staged counties for the selection.
	MergeReplace
)

func (m MergeMode) String() string {
	if m == MergeReplace {
		return "replace"
	}
	return "union"
}

// ParseMergeMode accepts "union" or "replace", case-insensitively.
func ParseMergeMode(s string) (MergeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "union":
		return MergeUnion, nil
	case "replace":
		return MergeReplace, nil
	default:
		return 0, fmt.Errorf("unknown map selection mode %q", s)
	}
}

// Outcome is the result of one reconciliation.
type Outcome struct {
	State FilterState
	// Rejected is set when the staged year range was empty and the previous
	// applied state was kept instead.
	Rejected bool
}

// Reconciler computes the next applied FilterState for a dataset.
type Reconciler struct {
	dataset *Dataset
	mode    MergeMode
}

// NewReconciler creates a Reconciler bound to ds.
func NewReconciler(ds *Dataset, mode MergeMode) *Reconciler {
	return &Reconciler{dataset: ds, mode: mode}
}

// Mode returns the configured merge mode.
func (r *Reconciler) Mode() MergeMode { return r.mode }

// Reconcile merges staged edits into the applied state according to trigger.
// The returned state never carries a map selection.
func (r *Reconciler) Reconcile(trigger Trigger, staged, applied FilterState) Outcome {
	switch trigger {
	case TriggerReset:
		return Outcome{State: DefaultFilterState(r.dataset)}
	case TriggerSubmit:
		next := FilterState{
			Counties:      NewSet(staged.Counties),
			Years:         staged.Years,
			IncidentNames: NewSet(staged.IncidentNames),
		}
		if sel := NewSet(staged.MapSelection); len(sel) > 0 {
			next.Counties = r.merge(staged.Counties, sel)
		}
		return r.validate(next, applied)
	case TriggerMapSelect:
		sel := NewSet(staged.MapSelection)
		if len(sel) == 0 {
			return Outcome{State: consumed(applied)}
		}
		next := applied.Clone()
		next.Counties = r.merge(staged.Counties, sel)
		return r.validate(next, applied)
	default:
		return Outcome{State: consumed(applied)}
	}
}

func (r *Reconciler) merge(counties, selection []string) []string {
	if r.mode == MergeReplace {
		return NewSet(selection)
	}
	return unionSets(counties, selection)
}

// validate clamps the year range to the dataset span and rejects it if it is
// empty afterwards.
func (r *Reconciler) validate(next, applied FilterState) Outcome {
	if !next.Years.Valid() {
		return Outcome{State: consumed(applied), Rejected: true}
	}
	next.Years = next.Years.Clamp(r.dataset.YearSpan())
	if !next.Years.Valid() {
		return Outcome{State: consumed(applied), Rejected: true}
	}
	next.MapSelection = nil
	return Outcome{State: next}
}

func consumed(f FilterState) FilterState {
	out := f.Clone()
	out.MapSelection = nil
	return out
}
