// filepath: internal/api/handlers/intake_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"intakehub/internal/formstate"
	"intakehub/internal/logging"
	"intakehub/internal/models"
	"intakehub/internal/phone"
)

// visitRequest is the body of POST /visits.
type visitRequest struct {
	Phone       string             `json:"phone"`
	ArrivalMode models.ArrivalMode `json:"arrival_mode"`
	// Date defaults to today. Any other day is refused.
	Date string `json:"date,omitempty"`
}

// @Summary Look up a household by phone
// @Description Returns every record stored for the phone number, the visit count and whether a visit was already logged today. An unknown phone returns an empty list.
// @Tags Intake
// @Produce  json
// @Param   phone  query  string  true  "Phone number in any format"
// @Success 200 {object} models.LookupResult
// @Failure 400 {object} ErrorResponse "Missing phone parameter"
// @Failure 500 {object} ErrorResponse "Server error"
// @Router /households [get]
func (h *Handlers) LookupHousehold(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("phone")
	if strings.TrimSpace(raw) == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required query parameter: phone")
		return
	}

	result, err := h.Intake.Lookup(r.Context(), raw, h.Now())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	if result.Records == nil {
		result.Records = []models.IntakeRecord{}
	}
	respondWithJSON(w, http.StatusOK, result)
}

// @Summary Submit a new household
// @Description Validates and stores the intake of a first-time household. A phone that is already registered is refused with the existing records. Only one submission per kiosk can be in flight; kiosks are told apart by X-Kiosk-ID, or by remote address when the header is missing.
// @Tags Intake
// @Accept  json
// @Produce  json
// @Param   X-Kiosk-ID  header  string  false  "Kiosk identifier"
// @Param   body  body  models.IntakeFields  true  "Intake fields"
// @Success 201 {object} models.SubmitResult
// @Failure 400 {object} ErrorResponse "Invalid JSON body"
// @Failure 409 {object} DuplicateResponse "Household already registered or submission in progress"
// @Failure 422 {object} ValidationErrorResponse "Validation failed"
// @Failure 500 {object} ErrorResponse "Server error"
// @Router /intakes [post]
func (h *Handlers) SubmitIntake(w http.ResponseWriter, r *http.Request) {
	var fields models.IntakeFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	form := h.Forms.For(kioskID(r))
	if err := form.Begin(); err != nil {
		if errors.Is(err, formstate.ErrBusy) {
			respondWithError(w, http.StatusConflict, "A submission from this kiosk is already in progress.")
			return
		}
		respondWithServiceError(w, r, err)
		return
	}

	result, err := h.Intake.SubmitNewIntake(r.Context(), fields)
	if err != nil {
		form.Fail()
		respondWithServiceError(w, r, err)
		return
	}
	form.Succeed()
	if form.ResetRequested() {
		w.Header().Set(FormResetHeader, "true")
		form.Reset()
	}

	logging.FromContext(r.Context()).Infof("SubmitIntake: Stored record %d", result.Key)
	respondWithJSON(w, http.StatusCreated, result)
}

// @Summary Log a repeat visit
// @Description Records another visit of a known household by copying its latest record with the given arrival mode. Only one visit per household and day is accepted, and only for the current day; the server stamps the record.
// @Tags Intake
// @Accept  json
// @Produce  json
// @Param   body  body  visitRequest  true  "Phone, arrival mode and optional date"
// @Success 201 {object} models.IntakeRecord
// @Failure 400 {object} ErrorResponse "Invalid body or date"
// @Failure 404 {object} ErrorResponse "Unknown household"
// @Failure 409 {object} ErrorResponse "Already logged today"
// @Failure 422 {object} ValidationErrorResponse "Invalid arrival mode or a date other than today"
// @Failure 500 {object} ErrorResponse "Server error"
// @Router /visits [post]
func (h *Handlers) LogVisit(w http.ResponseWriter, r *http.Request) {
	var req visitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	normalized := phone.Normalize(req.Phone)
	if normalized == "" {
		respondWithError(w, http.StatusBadRequest, "Missing phone")
		return
	}
	day, err := h.parseDay(req.Date)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.Intake.LogRepeatVisit(r.Context(), normalized, req.ArrivalMode, day)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, record)
}
