// filepath: internal/api/handlers/token_handler.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"intakehub/internal/logging"
	"intakehub/internal/services/auth"
)

// tokenResponse is the JSON body returned on successful token generation.
type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// @Summary Get an admin token
// @Description Authenticate with the admin password (Basic Auth, user "admin") to receive a short-lived Bearer token for the admin endpoints.
// @Tags Auth
// @Produce  json
// @Success 200 {object} tokenResponse
// @Failure 401 {object} ErrorResponse "Authentication failed"
// @Failure 503 {object} ErrorResponse "No admin password configured"
// @Failure 500 {object} ErrorResponse "Token generation failed"
// @Security BasicAuth
// @Router /token [post]
func (h *Handlers) GetToken(w http.ResponseWriter, r *http.Request) {
	username, password, ok := r.BasicAuth()
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication failed: Missing Basic Auth")
		return
	}
	if username != "admin" {
		respondWithError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	token, expires, err := h.Token.IssueAdminToken(password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		logging.FromContext(r.Context()).Warn("GetToken: Rejected admin login")
		respondWithError(w, http.StatusUnauthorized, "Authentication failed")
		return
	case errors.Is(err, auth.ErrNoAdminPassword):
		respondWithError(w, http.StatusServiceUnavailable, "No admin password is configured. Run 'intakehub hash-password'.")
		return
	case err != nil:
		logging.FromContext(r.Context()).Errorf("Token generation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Could not generate token")
		return
	}

	respondWithJSON(w, http.StatusOK, tokenResponse{AccessToken: token, ExpiresAt: expires})
}
