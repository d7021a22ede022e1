package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDataset_Indexes(t *testing.T) {
	ds := sampleDataset()

	assert.Equal(t, 7, ds.Len())
	assert.Equal(t, 2017, ds.MinYear())
	assert.Equal(t, 2020, ds.MaxYear())
	assert.Equal(t, []string{"Butte", "Lake", "Los Angeles", "Napa", "Shasta", "Sonoma"}, ds.Counties())
	assert.Equal(t, []string{"Atlas", "Camp", "Carr", "Mendocino Complex", "Tubbs", "Woolsey"}, ds.IncidentNames())
	assert.True(t, ds.HasAssessedValue())
}

func TestNewDataset_CopiesInput(t *testing.T) {
	records := sampleRecords()
	ds := NewDataset(records)
	records[0].County = "Changed"

	assert.Equal(t, "Butte", ds.Records()[0].County)

	out := ds.Records()
	out[0].County = "Changed"
	assert.Equal(t, "Butte", ds.Records()[0].County)
}

func TestNewDataset_NormalizesNames(t *testing.T) {
	ds := NewDataset([]Record{{County: "  Neva\u0301da ", IncidentName: "Lobo ", Year: 2017}})

	assert.Equal(t, []string{"Nev\u00e1da"}, ds.Counties())
	assert.Equal(t, []string{"Lobo"}, ds.IncidentNames())
}

func TestNewDataset_Empty(t *testing.T) {
	ds := NewDataset(nil)

	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, YearRange{}, ds.YearSpan())
	assert.Empty(t, ds.Counties())
}

func TestWithoutAssessedValue(t *testing.T) {
	ds := NewDataset(sampleRecords(), WithoutAssessedValue())
	assert.False(t, ds.HasAssessedValue())
}
