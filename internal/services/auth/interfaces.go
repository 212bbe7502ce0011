// filepath: internal/services/auth/interfaces.go
package auth

import "time"

// TokenService defines the contract for JWT operations.
type TokenService interface {
	// IssueAdminToken checks the admin password and returns a signed
	// token together with its expiry.
	IssueAdminToken(password string) (token string, expires time.Time, err error)
	// Authorize turns a token into a capability. It never returns a valid
	// capability together with an error.
	Authorize(token string) (Capability, error)
}
