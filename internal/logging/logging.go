// internal/logging/logging.go
package logging

import (
	"context"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the application-wide logger. Init replaces its settings.
var Log = NewLogger("info")

// Init sets the level of the global logger. The pointer stays the same,
// so loggers handed out earlier follow the change.
func Init(level string) {
	Log.SetLevel(ParseLevel(level))
}

// NewLogger builds a JSON logger writing to stdout.
func NewLogger(level string) *logrus.Logger {

	var log = logrus.New()

	// Set the log format.
	// Using JSON format for structured logging.
	log.SetFormatter(&logrus.JSONFormatter{})

	// Set the output.
	// Default is stderr, but can be set to a file.
	log.SetOutput(os.Stdout)
	log.SetLevel(ParseLevel(level))

	return log
}

// ParseLevel maps a config value to a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

type requestIDKey struct{}

// WithRequestID stores the request ID in ctx so that log and audit entries
// written further down can be correlated with the HTTP request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// FromContext returns an entry carrying the request ID of ctx, if any.
func FromContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(Log)
	if id := RequestID(ctx); id != "" {
		entry = entry.WithField("request_id", id)
	}
	return entry
}
