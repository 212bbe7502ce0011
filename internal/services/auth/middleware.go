// filepath: internal/services/auth/middleware.go
package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"intakehub/internal/logging"
)

// writeError sends a JSON error response.
func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Middleware gates admin routes.
type Middleware struct {
	Token TokenService
}

// NewMiddleware creates a new instance of Middleware.
func NewMiddleware(token TokenService) *Middleware {
	return &Middleware{Token: token}
}

// RequireAdmin checks for a valid Bearer token and stores the resulting
// capability in the request context.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="restricted"`)
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		capability, err := m.Token.Authorize(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			logging.Log.Warnf("RequireAdmin: Invalid Bearer token: %v", err)
			if strings.Contains(err.Error(), "expired") {
				// Send a specific error for expired tokens
				writeError(w, http.StatusUnauthorized, "Token expired")
			} else {
				writeError(w, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithCapability(r.Context(), capability)))
	})
}
