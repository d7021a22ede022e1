package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnknownCategory is returned when a label does not name a known damage or structure category.
var ErrUnknownCategory = errors.New("unknown category")

// DamageCategory is the ordinal severity bucket assigned by the inspector.
type DamageCategory int

const (
	NoDamage DamageCategory = iota
	Affected
	Minor
	Major
	Destroyed
)

var damageLabels = [...]string{
	NoDamage:  "No Damage",
	Affected:  "Affected (1-9%)",
	Minor:     "Minor (10-25%)",
	Major:     "Major (26-50%)",
	Destroyed: "Destroyed (>50%)",
}

// damageKeywords match the leading word of a label, ignoring the percentage suffix.
var damageKeywords = [...]string{
	NoDamage:  "no damage",
	Affected:  "affected",
	Minor:     "minor",
	Major:     "major",
	Destroyed: "destroyed",
}

// DamageCategories returns every damage category in rank order.
func DamageCategories() []DamageCategory {
	return []DamageCategory{NoDamage, Affected, Minor, Major, Destroyed}
}

func (d DamageCategory) String() string {
	if !d.valid() {
		return fmt.Sprintf("DamageCategory(%d)", int(d))
	}
	return damageLabels[d]
}

// Rank is the position of the category in chart order.
func (d DamageCategory) Rank() int { return int(d) }

func (d DamageCategory) valid() bool { return d >= NoDamage && d <= Destroyed }

func (d DamageCategory) MarshalText() ([]byte, error) {
	if !d.valid() {
		return nil, fmt.Errorf("marshal damage category %d: %w", int(d), ErrUnknownCategory)
	}
	return []byte(damageLabels[d]), nil
}

func (d *DamageCategory) UnmarshalText(b []byte) error {
	v, err := ParseDamageCategory(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDamageCategory maps a source label such as "Destroyed (>50%)" or
// "D. Destroyed (>50%)" to its category. "Inaccessible", "Unknown" and blank
// labels return ErrUnknownCategory.
func ParseDamageCategory(s string) (DamageCategory, error) {
	key := categoryKey(s)
	for i, kw := range damageKeywords {
		if strings.HasPrefix(key, kw) {
			return DamageCategory(i), nil
		}
	}
	return 0, fmt.Errorf("damage %q: %w", s, ErrUnknownCategory)
}

// StructureCategory classifies the use of the inspected structure.
type StructureCategory int

const (
	SingleResidence StructureCategory = iota
	MultipleResidence
	MixedCommercialResidential
	NonresidentialCommercial
	Infrastructure
	Agriculture
	OtherMinorStructure
)

var structureLabels = [...]string{
	SingleResidence:            "Single Residence",
	MultipleResidence:          "Multiple Residence",
	MixedCommercialResidential: "Mixed Commercial/Residential",
	NonresidentialCommercial:   "Nonresidential Commercial",
	Infrastructure:             "Infrastructure",
	Agriculture:                "Agriculture",
	OtherMinorStructure:        "Other Minor Structure",
}

// StructureCategories returns every structure category in rank order.
func StructureCategories() []StructureCategory {
	return []StructureCategory{
		SingleResidence, MultipleResidence, MixedCommercialResidential,
		NonresidentialCommercial, Infrastructure, Agriculture, OtherMinorStructure,
	}
}

func (s StructureCategory) String() string {
	if !s.valid() {
		return fmt.Sprintf("StructureCategory(%d)", int(s))
	}
	return structureLabels[s]
}

// Rank is the position of the category in chart order.
func (s StructureCategory) Rank() int { return int(s) }

func (s StructureCategory) valid() bool {
	return s >= SingleResidence && s <= OtherMinorStructure
}

func (s StructureCategory) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("marshal structure category %d: %w", int(s), ErrUnknownCategory)
	}
	return []byte(structureLabels[s]), nil
}

func (s *StructureCategory) UnmarshalText(b []byte) error {
	v, err := ParseStructureCategory(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStructureCategory maps a source label to its category. Separators are
// ignored, so "Mixed Commercial/Residential" and "Mixed Commercial Residential"
// are the same category.
func ParseStructureCategory(s string) (StructureCategory, error) {
	key := squash(categoryKey(s))
	for i, label := range structureLabels {
		if key == squash(strings.ToLower(label)) {
			return StructureCategory(i), nil
		}
	}
	return 0, fmt.Errorf("structure %q: %w", s, ErrUnknownCategory)
}

// letterPrefix matches the "A. " style ordering prefix some exports put on labels.
var letterPrefix = regexp.MustCompile(`^[A-Za-z]\.\s*`)

func categoryKey(s string) string {
	s = letterPrefix.ReplaceAllString(strings.TrimSpace(s), "")
	return strings.ToLower(s)
}

func squash(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '/' || r == '-' || r == '_' {
			return -1
		}
		return r
	}, s)
}
