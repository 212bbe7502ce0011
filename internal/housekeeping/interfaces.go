// filepath: internal/housekeeping/interfaces.go
package housekeeping

import "context"

// Repairer is the store method required by the housekeeping service.
// This decouples the drift check from the concrete backend.
type Repairer interface {
	Repair(ctx context.Context, dryRun bool) (int, error)
}
