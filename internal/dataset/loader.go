// Package dataset reads the wildfire damage table from disk into an immutable
// domain.Dataset. CSV, XLSX and SQLite sources share one column contract.
package dataset

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/domain"
	"github.com/tealeg/xlsx/v2"
	_ "modernc.org/sqlite"
)

var (
	// ErrMissingColumn is returned when a required column is absent from the source.
	ErrMissingColumn = errors.New("missing required column")
	// ErrUnsupportedFormat is returned for file extensions no reader handles.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

func missingColumn(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumn, name)
}

// Options configures Load.
type Options struct {
	// Table is the SQLite table to read. Ignored for file formats.
	Table  string
	Logger *slog.Logger
}

// Load reads the dataset at path, choosing a reader by file extension.
func Load(ctx context.Context, path string, opts Options) (*domain.Dataset, Stats, error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	var (
		header []string
		rows   [][]string
		err    error
	)
	switch format {
	case "csv":
		header, rows, err = readCSV(path)
	case "xlsx":
		header, rows, err = readXLSX(path)
	case "db", "sqlite", "sqlite3":
		table := opts.Table
		if table == "" {
			table = "damage_inspections"
		}
		header, rows, err = readSQLite(ctx, path, table)
	default:
		return nil, Stats{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, Stats{}, err
	}

	ds, stats, err := FromRows(header, rows)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("load %s: %w", path, err)
	}
	stats.Format = format

	if opts.Logger != nil {
		opts.Logger.Info("dataset loaded",
			"path", path,
			"format", format,
			"rows", stats.Rows,
			"records", stats.Loaded,
			"skipped_damage", stats.SkippedDamage,
			"skipped_roof", stats.SkippedRoof,
			"skipped_invalid", stats.SkippedInvalid,
			"min_year", ds.MinYear(),
			"max_year", ds.MaxYear(),
		)
		if !stats.HasValue {
			opts.Logger.Warn("dataset has no assessed improved value column, loss charts will be empty", "path", path)
		}
	}
	return ds, stats, nil
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("read csv %s: empty file", path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv rows: %w", err)
	}
	return header, rows, nil
}

// readXLSX reads the first sheet; its first row is the header.
func readXLSX(path string) ([]string, [][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open xlsx: %w", err)
	}
	if len(f.Sheets) == 0 {
		return nil, nil, fmt.Errorf("read xlsx %s: no sheets", path)
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, nil, fmt.Errorf("read xlsx %s: empty sheet %q", path, sheet.Name)
	}
	header := rowToStrings(sheet.Rows[0])
	rows := make([][]string, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		rows = append(rows, rowToStrings(row))
	}
	return header, rows, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func readSQLite(ctx context.Context, path, table string) ([]string, [][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close() //nolint:errcheck

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table))
	if err != nil {
		return nil, nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close() //nolint:errcheck

	header, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("columns of %s: %w", table, err)
	}

	values := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range values {
		ptrs[i] = &values[i]
	}

	var out [][]string
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan %s: %w", table, err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = cellString(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return header, out, nil
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		return x.Format(time.DateTime)
	default:
		return fmt.Sprint(x)
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
