// filepath: internal/services/mocks/auditor_mock.go
package mocks

import (
	"context"
	"fmt"

	"intakehub/internal/models"
	"intakehub/internal/services"

	"github.com/stretchr/testify/mock"
)

type MockAuditor struct {
	mock.Mock
}

var _ services.Auditor = (*MockAuditor)(nil)

func (m *MockAuditor) Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{}) {
	m.Called(ctx, action, actor, resource, details)
}

// ExpectRecordAction expects exactly one audit line for a single-record
// mutation performed by actor.
func (m *MockAuditor) ExpectRecordAction(action, actor string, key models.StoreKey) *mock.Call {
	return m.On("Log", mock.Anything, action, actor, fmt.Sprintf("Record:%d", key), mock.Anything).Return().Once()
}
