// filepath: internal/services/housekeeping_service.go
package services

import (
	"context"
	"time"

	"intakehub/internal/housekeeping"
	"intakehub/internal/metrics"
	"intakehub/internal/models"
	"intakehub/internal/repository"
)

var _ HousekeepingService = (*housekeepingService)(nil)

// housekeepingService manages the lifecycle of the background drift
// checker and provides a method for manual triggering.
type housekeepingService struct {
	worker     *housekeeping.Service
	workerDeps housekeeping.Dependencies
	interval   time.Duration
}

// NewHousekeepingService creates a new HousekeepingService.
func NewHousekeepingService(store repository.Store, autoRepair bool, interval time.Duration, m *metrics.Metrics) *housekeepingService {
	deps := housekeeping.Dependencies{
		Store:      store,
		AutoRepair: autoRepair,
	}
	if m != nil {
		deps.OnRepaired = func(n int) { m.RowsRepaired.Add(float64(n)) }
	}
	return &housekeepingService{
		workerDeps: deps,
		interval:   interval,
	}
}

// Start begins the background worker. A zero interval disables it.
func (s *housekeepingService) Start() {
	if s.interval <= 0 {
		return
	}
	s.worker = housekeeping.NewService(s.workerDeps, s.interval)
	s.worker.Start()
}

// Stop terminates the background worker.
func (s *housekeepingService) Stop() {
	if s.worker != nil {
		s.worker.Stop()
		s.worker = nil
	}
}

// TriggerDriftCheck runs the drift check now.
func (s *housekeepingService) TriggerDriftCheck(ctx context.Context) (*models.DriftReport, error) {
	return housekeeping.RunDriftCheck(ctx, s.workerDeps)
}
