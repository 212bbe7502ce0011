// filepath: internal/services/interfaces.go
package services

import (
	"context"
	"io"
	"time"

	"intakehub/internal/models"
	"intakehub/internal/reports"
	"intakehub/internal/services/auth"
)

// Auditor defines the interface for recording security-relevant events.
type Auditor interface {
	// Log records an event.
	// ctx: context to trace request IDs (if available)
	// action: what happened (e.g., "record.update", "record.delete")
	// actor: who did it (capability subject or "kiosk")
	// resource: what was affected (e.g., "Record:12")
	// details: structured metadata about the event
	Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{})
}

// InfoService defines the interface for the info service.
type InfoService interface {
	GetInfo() models.Info
}

// IntakeService defines the operations the kiosk and admin surfaces call.
type IntakeService interface {
	Lookup(ctx context.Context, rawPhone string, today time.Time) (models.LookupResult, error)
	SubmitNewIntake(ctx context.Context, fields models.IntakeFields) (models.SubmitResult, error)
	LogRepeatVisit(ctx context.Context, normalizedPhone string, mode models.ArrivalMode, today time.Time) (models.IntakeRecord, error)
	UpdateRecord(ctx context.Context, key models.StoreKey, upd models.IntakeUpdate, confirm bool) (models.IntakeRecord, error)
	DeleteRecord(ctx context.Context, key models.StoreKey, capability auth.Capability) error
	ExportAll(ctx context.Context, format string, w io.Writer) error
	Repair(ctx context.Context, capability auth.Capability, dryRun bool) (int, error)
	Report(ctx context.Context, date time.Time, weekday string) (reports.Summary, error)
	Import(ctx context.Context, records []models.IntakeRecord) (int, error)
}

// HousekeepingService defines the interface for the background drift checker.
type HousekeepingService interface {
	Start()
	Stop()
	TriggerDriftCheck(ctx context.Context) (*models.DriftReport, error)
}
