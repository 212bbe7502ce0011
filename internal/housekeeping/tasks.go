// filepath: internal/housekeeping/tasks.go
package housekeeping

import (
	"context"
	"fmt"
	"time"

	"intakehub/internal/logging"
	"intakehub/internal/models"
)

// Dependencies defines the required collaborators for the housekeeping tasks.
type Dependencies struct {
	Store Repairer
	// AutoRepair lets the check rewrite drifted rows instead of only
	// counting them.
	AutoRepair bool
	// OnRepaired is called with the number of rows rewritten, if set.
	OnRepaired func(n int)
}

// RunDriftCheck counts (or, with AutoRepair, fixes) rows whose width does
// not match the store's schema.
func RunDriftCheck(ctx context.Context, deps Dependencies) (*models.DriftReport, error) {
	report := &models.DriftReport{CheckedAt: time.Now()}

	n, err := deps.Store.Repair(ctx, !deps.AutoRepair)
	if err != nil {
		return nil, fmt.Errorf("drift check failed: %w", err)
	}
	report.RowsAffected = n

	switch {
	case n == 0:
		report.Message = "No schema drift found."
	case deps.AutoRepair:
		report.Repaired = true
		report.Message = fmt.Sprintf("Repaired %d drifted rows.", n)
		if deps.OnRepaired != nil {
			deps.OnRepaired(n)
		}
	default:
		report.Message = fmt.Sprintf("%d rows need repair. Run 'intakehub repair' to fix them.", n)
		logging.Log.Warnf("Housekeeping: %d rows need repair", n)
	}
	return report, nil
}
