package logging

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, NewLogger("DEBUG").GetLevel())
	assert.Equal(t, logrus.WarnLevel, NewLogger("warn").GetLevel())
	assert.Equal(t, logrus.InfoLevel, NewLogger("nonsense").GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, NewLogger("info").Formatter)
}

func TestInit(t *testing.T) {
	before := Log
	defer Init("info")

	Init("error")
	assert.Equal(t, logrus.ErrorLevel, Log.GetLevel())
	assert.Same(t, before, Log)
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", RequestID(ctx))
	_, ok := FromContext(ctx).Data["request_id"]
	assert.False(t, ok)

	ctx = WithRequestID(ctx, "01HX")
	assert.Equal(t, "01HX", RequestID(ctx))
	assert.Equal(t, "01HX", FromContext(ctx).Data["request_id"])
}
