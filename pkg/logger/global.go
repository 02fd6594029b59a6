package logger

import (
	"os"
	"sync/atomic"
)

// defaultLogger is the global default Logger instance stored atomically.
var defaultLogger atomic.Value

func init() {
	defaultLogger.Store(NewLogger(os.Stderr))
}

// Default returns the global default Logger instance.
func Default() *Logger {
	return defaultLogger.Load().(*Logger)
}

// SetDefault sets a new global default Logger instance.
func SetDefault(logger *Logger) {
	if logger != nil {
		defaultLogger.Store(logger)
	}
}

// New creates a new Logger writing to stderr.
func New() *Logger {
	return NewLogger(os.Stderr)
}

// Trace logs at trace level on the default logger.
func Trace(msg any, keyvals ...any) {
	Default().Trace(msg, keyvals...)
}

// Debug logs at debug level on the default logger.
func Debug(msg any, keyvals ...any) {
	Default().Debug(msg, keyvals...)
}

// Info logs at info level on the default logger.
func Info(msg any, keyvals ...any) {
	Default().Info(msg, keyvals...)
}

// Warn logs at warn level on the default logger.
func Warn(msg any, keyvals ...any) {
	Default().Warn(msg, keyvals...)
}

// Error logs at error level on the default logger.
func Error(msg any, keyvals ...any) {
	Default().Error(msg, keyvals...)
}

// GetLevel returns the level of the default logger.
func GetLevel() Level {
	return Default().GetLevel()
}

// SetLevel sets the level of the default logger.
func SetLevel(level Level) {
	Default().SetLevel(level)
}
