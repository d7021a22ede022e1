package domain

// SelectionPoint is one feature reported by the map UI in a selection event.
// Plotly-style payloads label points with hovertext; clients may also send
// the county directly.
type SelectionPoint struct {
	County    string `json:"county,omitempty"`
	HoverText string `json:"hovertext,omitempty"`
}

// OnMapSelect extracts the distinct county names from a selection payload.
// An empty or absent payload yields an empty, non-nil set.
func OnMapSelect(points []SelectionPoint) []string {
	names := make([]string, 0, len(points))
	for _, p := range points {
		name := p.County
		if name == "" {
			name = p.HoverText
		}
		names = append(names, name)
	}
	return NewSet(names)
}
