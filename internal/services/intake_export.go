// filepath: internal/services/intake_export.go
package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"intakehub/internal/logging"
	"intakehub/internal/models"
	"intakehub/internal/schema"

	"github.com/xuri/excelize/v2"
)

// Export formats accepted by ExportAll.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const exportSheet = "Intakes"

// ExportAll writes every record in the canonical column order, ID first.
func (s *intakeService) ExportAll(ctx context.Context, format string, w io.Writer) error {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatXLSX {
		return &ValidationError{Messages: []string{fmt.Sprintf("Unsupported export format %q (use csv or xlsx)", format)}}
	}

	records, err := s.Store.LoadAll(ctx)
	if err != nil {
		return err
	}

	if format == FormatXLSX {
		err = writeXLSX(w, records)
	} else {
		err = writeCSV(w, records)
	}
	if err != nil {
		logging.FromContext(ctx).Errorf("Export: Failed to write %s: %v", format, err)
		return fmt.Errorf("export failed: %w", err)
	}

	s.Auditor.Log(ctx, "records.export", actor(ctx), "Records", map[string]interface{}{
		"format": format,
		"rows":   len(records),
	})
	return nil
}

// writeCSV writes a header and one row per record.
func writeCSV(w io.Writer, records []models.IntakeRecord) error {
	// Handle BOM for Excel compatibility
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(schema.Header()); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(schema.FromRecord(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeXLSX writes a single sheet with a bold, frozen header row.
// Numeric columns are stored as numbers so spreadsheets can sum them.
func writeXLSX(w io.Writer, records []models.IntakeRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, 0, len(schema.Header()))
	for _, h := range schema.Header() {
		header = append(header, h)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(exportSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := xlsxRow(r)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}

	_, err = f.WriteTo(w)
	return err
}

func xlsxRow(r models.IntakeRecord) []interface{} {
	return []interface{}{
		int64(r.Key), r.Timestamp, r.HouseholdSize, r.MaleAdultCount, r.FemaleAdultCount,
		r.MaleAdultAges, r.FemaleAdultAges, r.ChildAges, r.ChildCount,
		r.SchoolLevels, r.Zip, r.ReferralSource, r.Phone, r.Email,
		r.Name, string(r.ArrivalMode),
	}
}
