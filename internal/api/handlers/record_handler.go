// filepath: internal/api/handlers/record_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"intakehub/internal/models"
	"intakehub/internal/services/auth"
)

// @Summary Update a record
// @Description Changes the named fields of one record. Changing the phone to one used by another household needs confirm=true.
// @Tags Records
// @Accept  json
// @Produce  json
// @Param   key  path  int  true  "Record key"
// @Param   confirm  query  bool  false  "Accept a phone shared with another household"
// @Param   body  body  models.IntakeUpdate  true  "Fields to change"
// @Success 200 {object} models.IntakeRecord
// @Failure 400 {object} ErrorResponse "Invalid key or body"
// @Failure 404 {object} ErrorResponse "Record not found"
// @Failure 409 {object} DuplicateResponse "Phone belongs to another household"
// @Failure 422 {object} ValidationErrorResponse "Validation failed"
// @Security BearerAuth
// @Router /records/{key} [patch]
func (h *Handlers) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	key, err := parseKey(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	confirm, err := parseBoolQuery(r, "confirm")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid value for confirm")
		return
	}

	var upd models.IntakeUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	record, err := h.Intake.UpdateRecord(r.Context(), key, upd, confirm)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, record)
}

// @Summary Delete a record
// @Description Permanently removes one record. The keys of other records do not change.
// @Tags Records
// @Produce  json
// @Param   key  path  int  true  "Record key"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "Invalid key"
// @Failure 401 {object} ErrorResponse "Admin authorization required"
// @Failure 404 {object} ErrorResponse "Record not found"
// @Security BearerAuth
// @Router /records/{key} [delete]
func (h *Handlers) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	key, err := parseKey(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Intake.DeleteRecord(r.Context(), key, auth.CapabilityFrom(r.Context())); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Record deleted."})
}
