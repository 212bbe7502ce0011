// filepath: internal/api/handlers/housekeeping_handler.go
package handlers

import (
	"net/http"

	"intakehub/internal/services/auth"
)

// repairResponse reports the outcome of POST /repair.
type repairResponse struct {
	DryRun       bool `json:"dry_run"`
	RowsAffected int  `json:"rows_affected"`
}

// @Summary Trigger a schema drift check
// @Description Manually runs the background drift check. Whether drifted rows are fixed depends on the auto_repair setting.
// @Tags Maintenance
// @Produce  json
// @Success 200 {object} models.DriftReport
// @Failure 500 {object} ErrorResponse "Drift check failed"
// @Security BearerAuth
// @Router /housekeeping [post]
func (h *Handlers) TriggerHousekeeping(w http.ResponseWriter, r *http.Request) {
	report, err := h.Housekeeping.TriggerDriftCheck(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// @Summary Repair schema drift
// @Description Realigns drifted rows and migrates legacy rows to the current schema. With dryrun=true only the number of affected rows is reported.
// @Tags Maintenance
// @Produce  json
// @Param   dryrun  query  bool  false  "Only count affected rows"
// @Success 200 {object} repairResponse
// @Failure 400 {object} ErrorResponse "Invalid dryrun value"
// @Failure 401 {object} ErrorResponse "Admin authorization required"
// @Failure 500 {object} ErrorResponse "Repair failed"
// @Security BearerAuth
// @Router /repair [post]
func (h *Handlers) RepairRecords(w http.ResponseWriter, r *http.Request) {
	dryRun, err := parseBoolQuery(r, "dryrun")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid value for dryrun")
		return
	}

	n, err := h.Intake.Repair(r.Context(), auth.CapabilityFrom(r.Context()), dryRun)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, repairResponse{DryRun: dryRun, RowsAffected: n})
}
