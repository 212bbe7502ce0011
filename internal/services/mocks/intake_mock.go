// filepath: internal/services/mocks/intake_mock.go
package mocks

import (
	"context"
	"io"
	"time"

	"intakehub/internal/models"
	"intakehub/internal/reports"
	"intakehub/internal/services"
	"intakehub/internal/services/auth"

	"github.com/stretchr/testify/mock"
)

// MockIntakeService is a mock implementation of services.IntakeService
type MockIntakeService struct {
	mock.Mock
}

var _ services.IntakeService = (*MockIntakeService)(nil)

func (m *MockIntakeService) Lookup(ctx context.Context, rawPhone string, today time.Time) (models.LookupResult, error) {
	args := m.Called(ctx, rawPhone, today)
	return args.Get(0).(models.LookupResult), args.Error(1)
}

func (m *MockIntakeService) SubmitNewIntake(ctx context.Context, fields models.IntakeFields) (models.SubmitResult, error) {
	args := m.Called(ctx, fields)
	return args.Get(0).(models.SubmitResult), args.Error(1)
}

func (m *MockIntakeService) LogRepeatVisit(ctx context.Context, normalizedPhone string, mode models.ArrivalMode, today time.Time) (models.IntakeRecord, error) {
	args := m.Called(ctx, normalizedPhone, mode, today)
	return args.Get(0).(models.IntakeRecord), args.Error(1)
}

func (m *MockIntakeService) UpdateRecord(ctx context.Context, key models.StoreKey, upd models.IntakeUpdate, confirm bool) (models.IntakeRecord, error) {
	args := m.Called(ctx, key, upd, confirm)
	return args.Get(0).(models.IntakeRecord), args.Error(1)
}

func (m *MockIntakeService) DeleteRecord(ctx context.Context, key models.StoreKey, capability auth.Capability) error {
	args := m.Called(ctx, key, capability)
	return args.Error(0)
}

func (m *MockIntakeService) ExportAll(ctx context.Context, format string, w io.Writer) error {
	args := m.Called(ctx, format, w)
	return args.Error(0)
}

func (m *MockIntakeService) Repair(ctx context.Context, capability auth.Capability, dryRun bool) (int, error) {
	args := m.Called(ctx, capability, dryRun)
	return args.Int(0), args.Error(1)
}

func (m *MockIntakeService) Report(ctx context.Context, date time.Time, weekday string) (reports.Summary, error) {
	args := m.Called(ctx, date, weekday)
	return args.Get(0).(reports.Summary), args.Error(1)
}

func (m *MockIntakeService) Import(ctx context.Context, records []models.IntakeRecord) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}
