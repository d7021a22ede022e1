package dataset

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

var header = []string{"Damage", "County", "Incident Name", "Year", "Structure Category", "Roof Construction", "Assessed Improved Value"}

var sampleRows = [][]string{
	{"Destroyed (>50%)", "Butte", "Camp", "2018", "Single Residence", "Asphalt", "350000"},
	{"Minor (10-25%)", "Butte", "Camp", "2018", "Multiple Residence", "Tile", "$1,200,000"},
	{"No Damage", "Sonoma", "Tubbs", "2017", "Agriculture", "Metal", ""},
	{"Inaccessible", "Napa", "Atlas", "2017", "Single Residence", "Asphalt", "10"},
	{"Affected (1-9%)", "Napa", "Atlas", "2017", "Single Residence", "", "10"},
	{"Major (26-50%)", "Lake", "Valley", "not-a-year", "Single Residence", "Wood", "10"},
	{"Major (26-50%)", "Lake", "Valley", "2015", "Single Residence", "Wood", "-5"},
	{"", "", "", "", "", "", ""},
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFromRows(t *testing.T) {
	ds, stats, err := FromRows(header, sampleRows)
	require.NoError(t, err)

	assert.Equal(t, Stats{Rows: 7, Loaded: 3, SkippedDamage: 1, SkippedRoof: 1, SkippedInvalid: 2, HasValue: true}, stats)
	assert.Equal(t, 4, stats.Skipped())
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, 2017, ds.MinYear())
	assert.Equal(t, 2018, ds.MaxYear())

	records := ds.Records()
	assert.Equal(t, domain.Record{
		County: "Butte", IncidentName: "Camp", Year: 2018, Damage: domain.Minor,
		Structure: domain.MultipleResidence, RoofConstruction: "Tile", AssessedValue: 1_200_000,
	}, records[1])
	assert.Zero(t, records[2].AssessedValue, "blank value counts as zero")
}

func TestFromRows_NonFiniteValuesSkipped(t *testing.T) {
	rows := [][]string{
		{"Destroyed (>50%)", "Butte", "Camp", "2018", "Single Residence", "Asphalt", "NaN"},
		{"Destroyed (>50%)", "Butte", "Camp", "2018", "Single Residence", "Asphalt", "Inf"},
		{"Destroyed (>50%)", "Butte", "Camp", "2018", "Single Residence", "Asphalt", "-Infinity"},
		{"Destroyed (>50%)", "Butte", "Camp", "2018", "Single Residence", "Asphalt", "100"},
	}

	ds, stats, err := FromRows(header, rows)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Loaded)
	assert.Equal(t, 3, stats.SkippedInvalid)
	require.Equal(t, 1, ds.Len())
	assert.InDelta(t, 100, ds.Records()[0].AssessedValue, 0)
}

func TestFromRows_RawExportHeaders(t *testing.T) {
	raw := []string{"\ufeff* Damage", "County", "* Incident Name", "Incident Start Date", "Structure Category", "* Roof Construction", "Assessed Improved Value (parcel)"}
	rows := [][]string{
		{"D. Destroyed (>50%)", "", "Camp", "11/8/2018 6:33:00 AM", "Single Residence", "Asphalt", "100"},
		{"A. No Damage", "Sonoma", "Tubbs", "2017-10-08", "Infrastructure", "Concrete", "0"},
	}

	ds, stats, err := FromRows(raw, rows)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Loaded)

	records := ds.Records()
	assert.Equal(t, "Unknown", records[0].County)
	assert.Equal(t, 2018, records[0].Year)
	assert.Equal(t, domain.Destroyed, records[0].Damage)
	assert.Equal(t, 2017, records[1].Year)
}

func TestFromRows_MissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		drop    string
		wantErr string
	}{
		{"damage", "Damage", "Damage"},
		{"roof", "Roof Construction", "Roof Construction"},
		{"year", "Year", "Year or Incident Start Date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h []string
			for _, c := range header {
				if c != tt.drop {
					h = append(h, c)
				}
			}
			_, _, err := FromRows(h, nil)
			require.ErrorIs(t, err, ErrMissingColumn)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFromRows_WithoutValueColumn(t *testing.T) {
	ds, stats, err := FromRows(header[:6], [][]string{sampleRows[0][:6]})
	require.NoError(t, err)
	assert.False(t, stats.HasValue)
	assert.False(t, ds.HasAssessedValue())
	assert.Equal(t, 1, ds.Len())
}

func TestLoad_CSV(t *testing.T) {
	var b strings.Builder
	b.WriteString(strings.Join(header, ",") + "\n")
	for _, row := range sampleRows[:3] {
		b.WriteString(`"` + strings.Join(row, `","`) + `"` + "\n")
	}
	path := filepath.Join(t.TempDir(), "dins.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))

	ds, stats, err := Load(context.Background(), path, Options{Logger: discardLogger()})
	require.NoError(t, err)
	assert.Equal(t, "csv", stats.Format)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"Butte", "Sonoma"}, ds.Counties())
}

func TestLoad_XLSX(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("DINS")
	require.NoError(t, err)
	for _, rowData := range append([][]string{header}, sampleRows[:2]...) {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "dins.xlsx")
	require.NoError(t, f.Save(path))

	ds, stats, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "xlsx", stats.Format)
	assert.Equal(t, 2, ds.Len())
}

func TestLoad_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dins.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE inspections (
		"Damage" TEXT, "County" TEXT, "Incident Name" TEXT, "Year" INTEGER,
		"Structure Category" TEXT, "Roof Construction" TEXT, "Assessed Improved Value" REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO inspections VALUES
		('Destroyed (>50%)', 'Butte', 'Camp', 2018, 'Single Residence', 'Asphalt', 1500000.0),
		('Inaccessible', 'Butte', 'Camp', 2018, 'Single Residence', 'Asphalt', 1.0),
		('Minor (10-25%)', 'Lake', 'Valley', 2015, 'Agriculture', 'Metal', NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	ds, stats, err := Load(context.Background(), path, Options{Table: "inspections"})
	require.NoError(t, err)
	assert.Equal(t, "db", stats.Format)
	assert.Equal(t, 1, stats.SkippedDamage)
	require.Equal(t, 2, ds.Len())
	assert.InDelta(t, 1.5e6, ds.Records()[0].AssessedValue, 1e-6)
	assert.Equal(t, 2015, ds.MinYear())
}

func TestLoad_Errors(t *testing.T) {
	_, _, err := Load(context.Background(), "dins.parquet", Options{})
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, _, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), Options{})
	require.Error(t, err)

	_, _, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.db"), Options{})
	require.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, _, err = Load(context.Background(), empty, Options{})
	require.Error(t, err)
}
