package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// YearRange is an inclusive range of incident years. It encodes as [min, max].
type YearRange struct {
	Min int
	Max int
}

// Valid reports whether the range is non-empty.
func (r YearRange) Valid() bool { return r.Min <= r.Max }

// Contains reports whether year falls inside the range.
func (r YearRange) Contains(year int) bool { return year >= r.Min && year <= r.Max }

// Clamp restricts both ends to bounds. The result may be invalid if the
// range lies entirely outside bounds.
func (r YearRange) Clamp(bounds YearRange) YearRange {
	return YearRange{Min: max(r.Min, bounds.Min), Max: min(r.Max, bounds.Max)}
}

func (r YearRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{r.Min, r.Max})
}

func (r *YearRange) UnmarshalJSON(b []byte) error {
	var pair []int
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("year range: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("year range: want [min, max], got %d values", len(pair))
	}
	r.Min, r.Max = pair[0], pair[1]
	return nil
}

func (r YearRange) String() string { return fmt.Sprintf("[%d,%d]", r.Min, r.Max) }

// FilterState is the complete set of constraints narrowing the dataset.
// A nil set means no restriction; a non-nil empty set matches nothing.
type FilterState struct {
	Counties      []string  `json:"counties"`
	Years         YearRange `json:"year_range"`
	IncidentNames []string  `json:"incident_names"`
	MapSelection  []string  `json:"map_selection"`
}

// DefaultFilterState is the unrestricted filter over ds.
func DefaultFilterState(ds *Dataset) FilterState {
	return FilterState{Years: ds.YearSpan()}
}

// Clone returns a deep copy so callers can edit it without touching f.
func (f FilterState) Clone() FilterState {
	return FilterState{
		Counties:      cloneSet(f.Counties),
		Years:         f.Years,
		IncidentNames: cloneSet(f.IncidentNames),
		MapSelection:  cloneSet(f.MapSelection),
	}
}

// Key is a canonical fingerprint of the predicates that shape a view. The
// map selection is excluded since it never reaches Apply unconsumed.
func (f FilterState) Key() string {
	var b strings.Builder
	b.WriteString("y=")
	b.WriteString(strconv.Itoa(f.Years.Min))
	b.WriteByte('-')
	b.WriteString(strconv.Itoa(f.Years.Max))
	writeSetKey(&b, "c", f.Counties)
	writeSetKey(&b, "i", f.IncidentNames)
	return b.String()
}

func writeSetKey(b *strings.Builder, name string, set []string) {
	b.WriteByte('|')
	b.WriteString(name)
	if set == nil {
		b.WriteString("=*")
		return
	}
	b.WriteByte('=')
	for i, v := range set {
		if i > 0 {
			b.WriteByte(0)
		}
		b.WriteString(strconv.Quote(v))
	}
}

// NewSet normalizes values into a sorted, deduplicated set. Blank names are
// dropped. A nil input stays nil; any other input yields a non-nil set.
func NewSet(values []string) []string {
	if values == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = NormalizeName(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func unionSets(a, b []string) []string {
	merged := make([]string, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	return NewSet(merged)
}

func cloneSet(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

func setIndex(s []string) map[string]struct{} {
	if s == nil {
		return nil
	}
	m := make(map[string]struct{}, len(s))
	for _, v := range s {
		m[v] = struct{}{}
	}
	return m
}
