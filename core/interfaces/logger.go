package interfaces

// Logger is the structured logging port used throughout the core.
// Implementations adapt logrus, zap or the standard library while the
// core stays implementation-agnostic.
//
// Example usage:
//
//	logger.Info("Analyzed page", map[string]interface{}{
//		"url":    "https://example.com/article",
//		"status": "success",
//	})
type Logger interface {
	// Debug logs detailed troubleshooting information.
	Debug(msg string, fields map[string]interface{})

	// Info logs general informational messages.
	Info(msg string, fields map[string]interface{})

	// Warn logs potential issues that don't prevent operation.
	Warn(msg string, fields map[string]interface{})

	// Error logs failures that need attention.
	Error(msg string, fields map[string]interface{})
}
