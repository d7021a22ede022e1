package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/dataset"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/domain"
	"github.com/spf13/cobra"
)

// earliestYear is the lower bound for a plausible incident year.
const earliestYear = 1900

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

var errValidationFailed = errors.New("validation failed")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a dataset file for integrity problems",
		Long: "Load the dataset and run integrity phases: column presence, row parsing, " +
			"damage category coverage, year bounds and assessed value sign.",
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, _ []string) error {
	path, table, err := dataFlags(cmd)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "=== Wildfire Damage Dataset Validation ===")
	fmt.Fprintln(w)

	ds, stats, err := dataset.Load(cmd.Context(), path, dataset.Options{Table: table, Logger: commandLogger(cmd)})
	if err != nil {
		fmt.Fprintf(w, "FATAL: %v\n", err)
		return err
	}

	phases := []*phase{
		validateColumns(stats),
		validateRows(stats),
		validateCategories(ds),
		validateYears(ds),
		validateValues(ds),
	}
	if !report(w, phases, stats) {
		return errValidationFailed
	}
	return nil
}

func report(w io.Writer, phases []*phase, stats dataset.Stats) bool {
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-34s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Rows: %d read, %d loaded, %d skipped (damage %d, roof %d, invalid %d)\n",
		stats.Rows, stats.Loaded, stats.Skipped(), stats.SkippedDamage, stats.SkippedRoof, stats.SkippedInvalid)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return true
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return false
}

func validateColumns(stats dataset.Stats) *phase {
	p := &phase{name: "Column presence"}
	if !stats.HasValue {
		p.errorf("no Assessed Improved Value column: loss charts will be empty")
	}
	return p
}

func validateRows(stats dataset.Stats) *phase {
	p := &phase{name: "Row parsing"}
	if stats.Loaded == 0 {
		p.errorf("no usable records out of %d rows", stats.Rows)
	}
	if stats.SkippedInvalid > 0 {
		p.errorf("%d rows have an unreadable year, structure category or value", stats.SkippedInvalid)
	}
	return p
}

func validateCategories(ds *domain.Dataset) *phase {
	p := &phase{name: "Damage category coverage"}
	seen := make(map[domain.DamageCategory]int)
	for _, r := range ds.Records() {
		seen[r.Damage]++
	}
	for _, c := range domain.DamageCategories() {
		if seen[c] == 0 {
			p.errorf("no records with damage %q", c)
		}
	}
	return p
}

func validateYears(ds *domain.Dataset) *phase {
	p := &phase{name: "Year bounds"}
	if ds.Len() == 0 {
		return p
	}
	latest := domain.Now().Year()
	if ds.MinYear() < earliestYear {
		p.errorf("earliest year %d is before %d", ds.MinYear(), earliestYear)
	}
	if ds.MaxYear() > latest {
		p.errorf("latest year %d is in the future", ds.MaxYear())
	}
	return p
}

func validateValues(ds *domain.Dataset) *phase {
	p := &phase{name: "Assessed value sign"}
	for _, r := range ds.Records() {
		if r.AssessedValue < 0 {
			p.errorf("%s / %s (%d): negative value %.2f", r.County, r.IncidentName, r.Year, r.AssessedValue)
		}
	}
	return p
}
