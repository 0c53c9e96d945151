// ABOUTME: Logger adapter backed by logrus
// ABOUTME: Maps the core Logger port onto structured logrus fields

package logrusadapter

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger implements the core Logger interface using logrus.
type Logger struct {
	log *logrus.Logger
}

// New creates a logrus-backed logger writing JSON to stdout. The
// level string is one of debug, info, warn, error; unknown values
// fall back to info.
func New(level string) *Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(parseLevel(level))
	return &Logger{log: log}
}

// NewWithLogger wraps an existing logrus logger, mainly for tests.
func NewWithLogger(log *logrus.Logger) *Logger {
	return &Logger{log: log}
}

// Debug logs detailed troubleshooting information.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.log.WithFields(logrus.Fields(fields)).Debug(msg)
}

// Info logs general informational messages.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.log.WithFields(logrus.Fields(fields)).Info(msg)
}

// Warn logs potential issues that don't prevent operation.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.log.WithFields(logrus.Fields(fields)).Warn(msg)
}

// Error logs failures that need attention.
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.log.WithFields(logrus.Fields(fields)).Error(msg)
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
