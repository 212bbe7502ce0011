// internal/api/handlers/health_handler.go
package handlers

import (
	"net/http"
)

type healthResponse struct {
	Status       string `json:"status"`
	ActiveKiosks int    `json:"active_kiosks"`
}

// HealthCheck is a public liveness check. It also reports how many kiosks
// have submitted within the form-state expiry window.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	active := 0
	if h.Forms != nil {
		active = h.Forms.Len()
	}
	respondWithJSON(w, http.StatusOK, healthResponse{Status: "ok", ActiveKiosks: active})
}
