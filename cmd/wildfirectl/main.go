// Command wildfirectl inspects a DINS damage dataset offline: it prints the
// dashboard aggregates for a filter and checks a file's integrity.
//
// Usage:
//
//	wildfirectl summarize --data data/cal_fire_damage.csv --county Butte --years 2018-2018
//	wildfirectl validate --data data/cal_fire_damage.xlsx
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "wildfirectl",
		Short:        "Inspect wildfire damage datasets",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("data", "", "dataset file (.csv, .xlsx, .db)")
	root.PersistentFlags().String("table", "damage_inspections", "table name for SQLite datasets")
	root.PersistentFlags().Bool("verbose", false, "log dataset loading details to stderr")
	_ = root.MarkPersistentFlagRequired("data")

	root.AddCommand(newSummarizeCmd(), newValidateCmd())
	return root
}

// commandLogger discards logs unless --verbose is set.
func commandLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func dataFlags(cmd *cobra.Command) (path, table string, err error) {
	path, _ = cmd.Flags().GetString("data")
	table, _ = cmd.Flags().GetString("table")
	if path == "" {
		return "", "", fmt.Errorf("--data is required")
	}
	return path, table, nil
}
