package types

// Logger defines methods for structured logging.
//
// Compatible with zap.SugaredLogger and other structured loggers.
// All methods accept key-value pairs for structured fields.
type Logger interface {
	// Debug logs a message at DebugLevel.
	Debug(msg string, keysAndValues ...any)

	// Info logs a message at InfoLevel.
	Info(msg string, keysAndValues ...any)

	// Warn logs a message at WarnLevel.
	Warn(msg string, keysAndValues ...any)

	// Error logs a message at ErrorLevel.
	Error(msg string, keysAndValues ...any)

	// Fatal logs a message at FatalLevel and calls os.Exit(1).
	//
	// Test and no-op implementations may choose not to exit.
	Fatal(msg string, keysAndValues ...any)
}
