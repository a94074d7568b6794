// Package logging is the structured logging layer of the pipeline. Engines log
// through Logger so tests can swap in MockLogger and inspect entries.
package logging

// Logger is the structured logger handed to every engine and command.
// Failures are returned as errors rather than logged fatally, so there is no
// Fatal level.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError, WithField and WithFields derive a logger carrying context
	// on every subsequent entry.
	WithError(err error) Logger
	WithField(key string, value interface{}) Logger
	WithFields(fields ...Field) Logger
}

// Field is one key/value pair of an entry. Prefer the Field* key constants.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
