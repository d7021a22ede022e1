package dataset

import "strings"

type column int

const (
	colDamage column = iota
	colCounty
	colIncident
	colYear
	colStartDate
	colStructure
	colRoof
	colValue
)

// aliases lists accepted header names per column. The starred names come
// straight from the raw CAL FIRE DINS export.
var aliases = map[column][]string{
	colDamage:    {"Damage", "* Damage"},
	colCounty:    {"County"},
	colIncident:  {"Incident Name", "* Incident Name"},
	colYear:      {"Year"},
	colStartDate: {"Incident Start Date"},
	colStructure: {"Structure Category"},
	colRoof:      {"Roof Construction", "* Roof Construction"},
	colValue:     {"Assessed Improved Value", "Assessed Improved Value (parcel)"},
}

var columnNames = map[column]string{
	colDamage:    "Damage",
	colCounty:    "County",
	colIncident:  "Incident Name",
	colYear:      "Year",
	colStartDate: "Incident Start Date",
	colStructure: "Structure Category",
	colRoof:      "Roof Construction",
	colValue:     "Assessed Improved Value",
}

// schema maps columns to their index in a row.
type schema map[column]int

func resolveSchema(header []string) (schema, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		key := headerKey(h)
		if _, dup := byName[key]; !dup {
			byName[key] = i
		}
	}

	s := make(schema)
	for col, names := range aliases {
		for _, name := range names {
			if i, ok := byName[headerKey(name)]; ok {
				s[col] = i
				break
			}
		}
	}

	for _, col := range []column{colDamage, colCounty, colIncident, colStructure, colRoof} {
		if _, ok := s[col]; !ok {
			return nil, missingColumn(columnNames[col])
		}
	}
	_, hasYear := s[colYear]
	_, hasDate := s[colStartDate]
	if !hasYear && !hasDate {
		return nil, missingColumn("Year or Incident Start Date")
	}
	return s, nil
}

func (s schema) has(col column) bool {
	_, ok := s[col]
	return ok
}

// get returns the trimmed cell for col, or "" if the column or cell is absent.
func (s schema) get(row []string, col column) string {
	i, ok := s[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func headerKey(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}
