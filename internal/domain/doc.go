// Package domain models CAL FIRE damage inspection (DINS) records and the
// filter state machine that narrows them for the dashboard.
//
// # Data Source
//
// Each record is one structure inspected after a wildfire. The raw inspection
// export carries dozens of columns; the dashboard only needs the county, the
// incident it burned in, the incident year, the assessed damage, the kind of
// structure, its roof construction, and the assessed improved value of the
// parcel. Rows marked "Inaccessible" and rows without a roof construction are
// dropped by the loader before they ever reach a Dataset.
//
// # Category Ranks
//
// Damage and structure categories are ordinal. Charts always list them in rank
// order so the axis and legend stay put while filters change:
//
//	Damage:    No Damage < Affected (1-9%) < Minor (10-25%) < Major (26-50%) < Destroyed (>50%)
//	Structure: Single Residence < Multiple Residence < Mixed Commercial/Residential <
//	           Nonresidential Commercial < Infrastructure < Agriculture < Other Minor Structure
//
// Source labels sometimes carry a letter prefix ("D. Destroyed (>50%)"); it is
// stripped during parsing.
//
// # Filter Lifecycle
//
// A FilterState exists in two copies per session: the staged copy holds edits
// the user has not submitted yet, the applied copy drives the charts. The
// Reconciler turns a trigger (submit, reset, map select) plus both copies into
// the next applied state. Sets use nil for "no restriction" and a non-nil
// slice (possibly empty) for an explicit set.
//
// A map selection is one-shot: once it has been folded into the county set
// the returned state carries a nil MapSelection, so a later unrelated edit
// cannot re-apply an old click.
//
// Invalid year ranges are clamped to the dataset span. A range that is still
// empty after clamping is rejected and the previous applied state is kept.
package domain
