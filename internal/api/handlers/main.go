// filepath: internal/api/handlers/main.go
package handlers

import (
	"time"

	"intakehub/internal/formstate"
	"intakehub/internal/services"
	"intakehub/internal/services/auth"
)

// Handlers provides a struct to hold shared dependencies for API handlers.
type Handlers struct {
	// --- Depend on interfaces, not concrete structs ---
	Info         services.InfoService
	Intake       services.IntakeService
	Token        auth.TokenService
	Housekeeping services.HousekeepingService

	// Forms keeps the submit state of each kiosk.
	Forms *formstate.Registry
	// Now is the clock used to decide what "today" is.
	Now func() time.Time
}

// NewHandlers creates a new instance of Handlers with its dependencies.
func NewHandlers(
	info services.InfoService,
	intake services.IntakeService,
	token auth.TokenService,
	housekeeping services.HousekeepingService,
) *Handlers {
	return &Handlers{
		Info:         info,
		Intake:       intake,
		Token:        token,
		Housekeeping: housekeeping,
		Forms:        formstate.NewRegistry(formstate.DefaultExpiry),
		Now:          time.Now,
	}
}
