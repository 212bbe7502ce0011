// filepath: internal/housekeeping/service.go
package housekeeping

import (
	"context"
	"time"

	"intakehub/internal/logging"
)

const (
	// DefaultCheckInterval is used when no interval is configured.
	DefaultCheckInterval = 1 * time.Hour
	// MinCheckInterval is the minimum time between checks to prevent busy-looping.
	MinCheckInterval = 1 * time.Minute
)

// Service provides the background worker for the periodic drift check.
type Service struct {
	Deps     Dependencies
	Interval time.Duration
	timer    *time.Timer
	stopCh   chan struct{}
	done     chan struct{}
}

// NewService creates a new housekeeping service instance. An interval of
// zero gives DefaultCheckInterval; callers that want no checks at all
// simply never call Start.
func NewService(deps Dependencies, interval time.Duration) *Service {
	return &Service{
		Deps:     deps,
		Interval: interval,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start kicks off the background housekeeping service.
func (s *Service) Start() {
	logging.Log.Info("Starting background housekeeping service.")
	s.timer = time.NewTimer(0) // Fire immediately on start

	go func() {
		defer close(s.done)
		for {
			select {
			case <-s.timer.C:
				s.runCheck()
				nextRun := s.scheduleNextRun()
				s.timer.Reset(nextRun)
				logging.Log.Debugf("Next drift check scheduled in %v.", nextRun)
			case <-s.stopCh:
				s.timer.Stop()
				return
			}
		}
	}()
}

// Stop terminates the background housekeeping service and waits for a
// running check to finish.
func (s *Service) Stop() {
	logging.Log.Info("Stopping background housekeeping service.")
	close(s.stopCh)
	if s.timer != nil {
		<-s.done
	}
}

// scheduleNextRun calculates the duration until the next check.
func (s *Service) scheduleNextRun() time.Duration {
	switch {
	case s.Interval <= 0:
		return DefaultCheckInterval
	case s.Interval < MinCheckInterval:
		return MinCheckInterval
	default:
		return s.Interval
	}
}

func (s *Service) runCheck() {
	logging.Log.Debug("Housekeeping service: Checking store for schema drift...")
	report, err := RunDriftCheck(context.Background(), s.Deps)
	if err != nil {
		logging.Log.Errorf("Housekeeping drift check failed: %v", err)
		return
	}
	logging.Log.Infof("Housekeeping drift check finished: %s", report.Message)
}
