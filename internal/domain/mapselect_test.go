package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnMapSelect(t *testing.T) {
	got := OnMapSelect([]SelectionPoint{
		{County: "Butte"},
		{HoverText: "Napa"},
		{County: "Butte"},
		{County: " Sonoma "},
	})
	assert.Equal(t, []string{"Butte", "Napa", "Sonoma"}, got)
}

func TestOnMapSelect_EmptyPayloadIsEmptySet(t *testing.T) {
	for _, points := range [][]SelectionPoint{nil, {}, {{}}} {
		got := OnMapSelect(points)
		require.NotNil(t, got)
		assert.Empty(t, got)
	}
}
