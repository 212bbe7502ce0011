// filepath: internal/api/middleware.go
package api

import (
	"encoding/json"
	"net/http"

	"intakehub/internal/logging"

	"github.com/oklog/ulid/v2"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// errorResponse matches the JSON structure used by the API handlers.
// Defined locally to avoid an import cycle with the handlers package.
type errorResponse struct {
	Error string `json:"error"`
}

// respondWithError writes a JSON error response to ensure consistency with the API.
func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: message}); err != nil {
		logging.Log.Errorf("Failed to encode error response: %v", err)
	}
}

// RequestIDMiddleware tags every request with a ULID. A client-supplied
// X-Request-ID is kept so that kiosk and server logs can be joined.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = ulid.Make().String()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := logging.WithRequestID(r.Context(), id)
		logging.FromContext(ctx).Debugf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
