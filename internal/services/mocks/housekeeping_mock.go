// filepath: internal/services/mocks/housekeeping_mock.go
package mocks

import (
	"context"

	"intakehub/internal/models"
	"intakehub/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockHousekeepingService is a mock implementation of services.HousekeepingService
type MockHousekeepingService struct {
	mock.Mock
}

var _ services.HousekeepingService = (*MockHousekeepingService)(nil)

func (m *MockHousekeepingService) Start() { m.Called() }

func (m *MockHousekeepingService) Stop() { m.Called() }

func (m *MockHousekeepingService) TriggerDriftCheck(ctx context.Context) (*models.DriftReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DriftReport), args.Error(1)
}
