// filepath: internal/api/handlers/export_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"intakehub/internal/logging"
	"intakehub/internal/services"
)

var exportContentTypes = map[string]string{
	services.FormatCSV:  "text/csv; charset=utf-8",
	services.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// @Summary Export all records
// @Description Streams every record as CSV (with a UTF-8 BOM) or as an XLSX workbook.
// @Tags Records
// @Produce  text/csv
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   format  query  string  false  "csv (default) or xlsx"
// @Success 200 {file} file "Export file"
// @Failure 400 {object} ErrorResponse "Unsupported format"
// @Failure 500 {object} ErrorResponse "Server error"
// @Security BearerAuth
// @Router /export [get]
func (h *Handlers) ExportRecords(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = services.FormatCSV
	}
	contentType, ok := exportContentTypes[format]
	if !ok {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Unsupported export format %q (use csv or xlsx)", format))
		return
	}

	// Set headers for the download
	w.Header().Set("Content-Type", contentType)
	filename := fmt.Sprintf("intakes_%s.%s", h.Now().Format("20060102"), format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))

	// Once the service starts writing to 'w' the status code is fixed.
	// A failure mid-stream results in a truncated download.
	if err := h.Intake.ExportAll(r.Context(), format, w); err != nil {
		logging.FromContext(r.Context()).Errorf("ExportRecords: Streaming failed: %v", err)
		return
	}
}
