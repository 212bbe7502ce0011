// filepath: internal/api/handlers/utils.go
package handlers

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"intakehub/internal/models"
	"intakehub/internal/shared"
)

// KioskHeader identifies the kiosk a request comes from.
const KioskHeader = "X-Kiosk-ID"

// FormResetHeader tells the kiosk to clear its form after a stored submission.
const FormResetHeader = "X-Form-Reset"

// kioskID names the form-state machine of the requesting kiosk. Kiosks
// that do not send KioskHeader are told apart by their remote host.
func kioskID(r *http.Request) string {
	if id := r.Header.Get(KioskHeader); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "remote:" + host
}

// parseKey reads the {key} path variable.
func parseKey(r *http.Request) (models.StoreKey, error) {
	raw := mux.Vars(r)["key"]
	key, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || key <= 0 {
		return 0, fmt.Errorf("invalid record key %q", raw)
	}
	return models.StoreKey(key), nil
}

// parseBoolQuery reads a boolean query parameter, defaulting to false.
func parseBoolQuery(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

// parseDay resolves an optional date parameter against the handler clock.
func (h *Handlers) parseDay(raw string) (time.Time, error) {
	return shared.ParseDate(raw, h.Now())
}
