// Package logging provides the structured logging abstraction used by every
// wallet component. Components depend on the Logger interface only, so tests
// can swap in MockLogger and the CLI can choose text or JSON output.
package logging

// Logger is the structured logger handed to components through their
// constructors.
type Logger interface {
	// Debug logs a debug-level message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info-level message with optional fields
	Info(msg string, fields ...Field)

	// Warn logs a warning-level message with optional fields
	Warn(msg string, fields ...Field)

	// Error logs an error-level message with optional fields
	Error(msg string, fields ...Field)

	// WithError returns a logger that attaches err to every entry
	WithError(err error) Logger

	// WithField returns a logger that attaches a single field to every entry
	WithField(key string, value interface{}) Logger

	// WithFields returns a logger that attaches the given fields to every entry
	WithFields(fields ...Field) Logger
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}
