package audit

import (
	"context"
	"testing"

	"intakehub/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerAuditor(t *testing.T) {
	logger, hook := test.NewNullLogger()
	a := NewLoggerAuditor(true).WithLogger(logger)

	ctx := logging.WithRequestID(context.Background(), "01HXREQ")
	a.Log(ctx, "record.delete", "admin", "Record:7", map[string]interface{}{"rows": 1})

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "AUDIT EVENT", entry.Message)
	assert.Equal(t, "record.delete", entry.Data["audit_action"])
	assert.Equal(t, "admin", entry.Data["audit_actor"])
	assert.Equal(t, "Record:7", entry.Data["audit_resource"])
	assert.Equal(t, "01HXREQ", entry.Data["request_id"])
	assert.Equal(t, 1, entry.Data["detail.rows"])
}

func TestLoggerAuditorDisabled(t *testing.T) {
	logger, hook := test.NewNullLogger()
	a := NewLoggerAuditor(false).WithLogger(logger)

	a.Log(context.Background(), "records.export", "kiosk", "Records", nil)
	assert.Empty(t, hook.Entries)
}
