package logging

import "context"

// Logger is the leveled logging contract shared by every migration service.
// Implementations accept structured key/value args after the message.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// FieldsLogger is an optional extension for loggers that can attach a
// persistent field set.
type FieldsLogger interface {
	Logger
	WithFields(fields map[string]any) Logger
}

// LoggerProvider hands out named child loggers.
type LoggerProvider interface {
	GetLogger(name string) Logger
}
