// filepath: internal/services/mocks/token_mock.go
package mocks

import (
	"time"

	"intakehub/internal/services/auth"

	"github.com/stretchr/testify/mock"
)

// MockTokenService is a mock implementation of auth.TokenService
type MockTokenService struct {
	mock.Mock
}

var _ auth.TokenService = (*MockTokenService)(nil)

func (m *MockTokenService) IssueAdminToken(password string) (string, time.Time, error) {
	args := m.Called(password)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) Authorize(tokenString string) (auth.Capability, error) {
	args := m.Called(tokenString)
	return args.Get(0).(auth.Capability), args.Error(1)
}
