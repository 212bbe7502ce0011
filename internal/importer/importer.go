// Package importer loads a legacy submissions CSV into the current store.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"intakehub/internal/logging"
	"intakehub/internal/models"
	"intakehub/internal/schema"
)

// Importer is the service method the import needs.
type Importer interface {
	Import(ctx context.Context, records []models.IntakeRecord) (int, error)
}

// Options controls how the source file is read.
type Options struct {
	// FromVersion is the layout of a file without a recognised header.
	// Zero means schema.V1. A recognised header always wins unless it
	// contradicts an explicit FromVersion.
	FromVersion schema.Version
}

// Result describes one import run.
type Result struct {
	Version   schema.Version `json:"version"`
	Imported  int            `json:"imported"`
	Realigned int            `json:"realigned"`
	Skipped   int            `json:"skipped"`
}

// RunFile imports the CSV at path.
func RunFile(ctx context.Context, svc Importer, path string, opts Options) (*Result, error) {
	logging.Log.Infof("Import file found at: %s. Processing...", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file '%s': %w", path, err)
	}
	defer f.Close()

	return Run(ctx, svc, f, opts)
}

// Run reads every row of r, aligns it to the width of its schema version,
// migrates it to the current layout and hands the records to svc. Legacy
// timestamps are kept; keys are assigned by the store.
func Run(ctx context.Context, svc Importer, r io.Reader, opts Options) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse import CSV: %w", err)
	}

	version, rows, err := detect(rows, opts.FromVersion)
	if err != nil {
		return nil, err
	}
	result := &Result{Version: version}

	rows, result.Skipped = dropBlank(rows)
	aligned, realigned := schema.RepairAlignment(rows, schema.Width(version))
	result.Realigned = realigned

	current, err := schema.Migrate(aligned, version)
	if err != nil {
		return nil, err
	}

	records := make([]models.IntakeRecord, 0, len(current))
	for i, row := range current {
		rec, err := schema.ToRecord(row)
		if err != nil {
			return nil, fmt.Errorf("data row %d: %w", i+1, err)
		}
		rec.Key = 0
		records = append(records, rec)
	}

	logging.Log.Infof("Import: %d rows of schema version %d (%d realigned, %d blank skipped).",
		len(records), version, realigned, result.Skipped)

	n, err := svc.Import(ctx, records)
	result.Imported = n
	if err != nil {
		return result, err
	}
	return result, nil
}

// detect strips a recognised header and decides the source version.
func detect(rows [][]string, declared schema.Version) (schema.Version, [][]string, error) {
	if declared != 0 && !declared.Valid() {
		return 0, nil, fmt.Errorf("unknown schema version: %d", declared)
	}
	if len(rows) > 0 {
		if v, ok := schema.DetectVersion(rows[0]); ok {
			if declared != 0 && declared != v {
				return 0, nil, fmt.Errorf("file header is schema version %d, but version %d was requested", v, declared)
			}
			return v, rows[1:], nil
		}
	}
	if declared == 0 {
		declared = schema.V1
	}
	return declared, rows, nil
}

func dropBlank(rows [][]string) ([][]string, int) {
	out := rows[:0]
	skipped := 0
	for _, row := range rows {
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			skipped++
			continue
		}
		out = append(out, row)
	}
	return out, skipped
}
