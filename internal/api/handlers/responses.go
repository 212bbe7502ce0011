// internal/api/handlers/responses.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"intakehub/internal/logging"
	"intakehub/internal/models"
	"intakehub/internal/services"
	"intakehub/internal/shared"
)

// ErrorResponse is a standard format for API error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a standard format for simple API messages.
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationErrorResponse lists every field problem of a refused submission.
type ValidationErrorResponse struct {
	Error    string   `json:"error"`
	Messages []string `json:"messages"`
}

// DuplicateResponse carries the records that already use the submitted phone.
type DuplicateResponse struct {
	Error   string                `json:"error"`
	Records []models.IntakeRecord `json:"records"`
}

// respondWithError sends a JSON error response.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithJSON sends a JSON response.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithServiceError maps the service and storage error taxonomy to
// HTTP status codes.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *services.ValidationError
		dup  *services.DuplicateError
	)
	switch {
	case errors.As(err, &verr):
		respondWithJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{Error: "Validation failed", Messages: verr.Messages})
	case errors.As(err, &dup):
		respondWithJSON(w, http.StatusConflict, DuplicateResponse{Error: "Household is already registered", Records: dup.Records})
	case errors.Is(err, services.ErrValidation):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrAlreadyLoggedToday):
		respondWithError(w, http.StatusConflict, "A visit was already logged for this household today.")
	case errors.Is(err, services.ErrConflict):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, services.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Admin authorization required.")
	case errors.Is(err, shared.ErrSchemaDrift), errors.Is(err, shared.ErrOutdated):
		logging.FromContext(r.Context()).Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		respondWithError(w, http.StatusServiceUnavailable, "Stored data needs repair: "+err.Error())
	default:
		logging.FromContext(r.Context()).Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error.")
	}
}
