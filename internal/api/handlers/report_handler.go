// filepath: internal/api/handlers/report_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"intakehub/internal/reports"
)

// @Summary Attendance report
// @Description Counts records on a date and per weekday, and breaks them down by arrival mode.
// @Tags Reports
// @Produce  json
// @Param   date  query  string  false  "YYYY-MM-DD, today (default) or tomorrow"
// @Param   weekday  query  string  false  "Weekday name, e.g. Monday"
// @Success 200 {object} reports.Summary
// @Failure 400 {object} ErrorResponse "Invalid date or weekday"
// @Failure 500 {object} ErrorResponse "Server error"
// @Security BearerAuth
// @Router /reports [get]
func (h *Handlers) GetReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	day, err := h.parseDay(q.Get("date"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	weekday := q.Get("weekday")
	if weekday != "" {
		if _, ok := reports.ParseWeekday(weekday); !ok {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Unknown weekday %q", weekday))
			return
		}
	}

	summary, err := h.Intake.Report(r.Context(), day, weekday)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}
