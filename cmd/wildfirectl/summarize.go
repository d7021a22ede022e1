package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/aggregate"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/dataset"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/domain"
	"github.com/spf13/cobra"
)

type summary struct {
	Filter  domain.FilterState `json:"filter"`
	Dataset dataset.Stats      `json:"dataset"`
	Results aggregate.Results  `json:"results"`
}

func newSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Print every dashboard aggregate for a filter",
		Long: "Apply a county, year and incident filter to the dataset the same way a dashboard " +
			"Submit does, then print the damage, roof, structure, time series, total loss and county tables.",
		RunE: runSummarize,
	}
	cmd.Flags().StringSlice("county", nil, "restrict to these counties (repeatable)")
	cmd.Flags().StringSlice("incident", nil, "restrict to these incident names (repeatable)")
	cmd.Flags().String("years", "", "inclusive year range MIN-MAX (default: the dataset span)")
	cmd.Flags().Int("top-n", 10, "number of counties in the ranked charts")
	cmd.Flags().Bool("json", false, "print JSON instead of tables")
	return cmd
}

func runSummarize(cmd *cobra.Command, _ []string) error {
	path, table, err := dataFlags(cmd)
	if err != nil {
		return err
	}
	counties, _ := cmd.Flags().GetStringSlice("county")
	incidents, _ := cmd.Flags().GetStringSlice("incident")
	yearsFlag, _ := cmd.Flags().GetString("years")
	topN, _ := cmd.Flags().GetInt("top-n")
	asJSON, _ := cmd.Flags().GetBool("json")
	if topN < 1 {
		return fmt.Errorf("--top-n must be at least 1")
	}

	ds, stats, err := dataset.Load(cmd.Context(), path, dataset.Options{Table: table, Logger: commandLogger(cmd)})
	if err != nil {
		return err
	}

	staged := domain.DefaultFilterState(ds)
	if len(counties) > 0 {
		staged.Counties = counties
	}
	if len(incidents) > 0 {
		staged.IncidentNames = incidents
	}
	if yearsFlag != "" {
		if staged.Years, err = parseYears(yearsFlag); err != nil {
			return err
		}
	}

	out := domain.NewReconciler(ds, domain.MergeUnion).Reconcile(domain.TriggerSubmit, staged, domain.DefaultFilterState(ds))
	if out.Rejected {
		return fmt.Errorf("year range %s does not overlap the dataset span %s", staged.Years, ds.YearSpan())
	}

	results, err := aggregate.NewDispatcher(topN).ComputeAll(cmd.Context(), domain.Apply(ds, out.State))
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary{Filter: out.State, Dataset: stats, Results: results})
	}
	printSummary(cmd.OutOrStdout(), out.State, results)
	return nil
}

// parseYears accepts "2018" or "2015-2020".
func parseYears(s string) (domain.YearRange, error) {
	lo, hi, found := strings.Cut(s, "-")
	if !found {
		hi = lo
	}
	minYear, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return domain.YearRange{}, fmt.Errorf("invalid --years %q", s)
	}
	maxYear, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return domain.YearRange{}, fmt.Errorf("invalid --years %q", s)
	}
	return domain.YearRange{Min: minYear, Max: maxYear}, nil
}

func printSummary(w io.Writer, f domain.FilterState, res aggregate.Results) {
	fmt.Fprintf(w, "Filter: counties=%s years=%s incidents=%s\n", setLabel(f.Counties), f.Years, setLabel(f.IncidentNames))
	fmt.Fprintf(w, "Records: %d\n", res.Rows)
	fmt.Fprintf(w, "Total economic loss: %s\n", res.TotalLoss.Label)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "\nDAMAGE\tCOUNT")
	for _, c := range res.Damage.Counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.Category, c.Count)
	}

	fmt.Fprintln(tw, "\nROOF CONSTRUCTION\tTOTAL")
	for _, r := range res.Roof.Rows {
		fmt.Fprintf(tw, "%s\t%d\n", r.RoofConstruction, r.Total)
	}

	fmt.Fprintln(tw, "\nCOUNTY\tSTRUCTURES")
	for _, r := range res.Structure.Counties {
		fmt.Fprintf(tw, "%s\t%d\n", r.County, r.Total)
	}

	fmt.Fprintln(tw, "\nCOUNTY\tTOTAL LOSS")
	for _, s := range res.TimeSeries.Series {
		fmt.Fprintf(tw, "%s\t%s\n", s.County, domain.FormatMoney(s.Total))
	}

	fmt.Fprintln(tw, "\nCOUNTY\tFIRES\tLOSS")
	for _, c := range res.CountyMap.Counties {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", c.County, c.Records, c.Label)
	}
	_ = tw.Flush()
}

func setLabel(set []string) string {
	if set == nil {
		return "all"
	}
	return strings.Join(set, ",")
}
