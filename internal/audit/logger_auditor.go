// filepath: internal/audit/logger_auditor.go
package audit

import (
	"context"

	"intakehub/internal/logging"
	"intakehub/internal/services"

	"github.com/sirupsen/logrus"
)

// Ensure LoggerAuditor implements services.Auditor
var _ services.Auditor = (*LoggerAuditor)(nil)

// LoggerAuditor is a simple implementation of Auditor that writes to a logrus logger.
type LoggerAuditor struct {
	enabled bool
	logger  *logrus.Logger
}

// NewLoggerAuditor creates a new instance of LoggerAuditor writing to the
// application log.
func NewLoggerAuditor(enabled bool) *LoggerAuditor {
	return &LoggerAuditor{enabled: enabled, logger: logging.Log}
}

// WithLogger returns a copy of the auditor writing to l.
func (a *LoggerAuditor) WithLogger(l *logrus.Logger) *LoggerAuditor {
	return &LoggerAuditor{enabled: a.enabled, logger: l}
}

// Log records an event using logrus if auditing is enabled.
func (a *LoggerAuditor) Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{}) {
	if !a.enabled {
		return
	}

	fields := logrus.Fields{
		"audit_action":   action,
		"audit_actor":    actor,
		"audit_resource": resource,
	}
	if id := logging.RequestID(ctx); id != "" {
		fields["request_id"] = id
	}

	// Add details flattened into the fields
	for k, v := range details {
		fields["detail."+k] = v
	}

	// Log at INFO level with a specific prefix to make it easy to grep
	a.logger.WithFields(fields).Info("AUDIT EVENT")
}
