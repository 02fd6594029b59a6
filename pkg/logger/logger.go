package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	charm "github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

// Level is the log level type, shared with charmbracelet/log.
type Level = charm.Level

// Log levels. TraceLevel sits below charm's DebugLevel; OffLevel is above FatalLevel so nothing is emitted.
const (
	TraceLevel Level = charm.DebugLevel - 1
	DebugLevel Level = charm.DebugLevel
	InfoLevel  Level = charm.InfoLevel
	WarnLevel  Level = charm.WarnLevel
	ErrorLevel Level = charm.ErrorLevel
	FatalLevel Level = charm.FatalLevel
	OffLevel   Level = charm.FatalLevel + 1
)

// LogLevel is the configuration-facing name of a level.
type LogLevel string

const (
	LogLevelOff     LogLevel = "Off"
	LogLevelTrace   LogLevel = "Trace"
	LogLevelDebug   LogLevel = "Debug"
	LogLevelInfo    LogLevel = "Info"
	LogLevelWarning LogLevel = "Warning"
)

// ErrInvalidLogLevel is returned by ParseLogLevel for unknown level names.
var ErrInvalidLogLevel = errors.New("invalid log level")

// Logger wraps a charmbracelet logger and adds the Trace level.
type Logger struct {
	*charm.Logger
}

// NewLogger creates a logger writing to w.
func NewLogger(w io.Writer) *Logger {
	l := charm.New(w)
	l.SetReportTimestamp(false)
	return &Logger{Logger: l}
}

// NewLoggerFromSettings builds a logger for a configured level name and file.
// An empty file or "/dev/stderr" logs to stderr, "/dev/stdout" to stdout, anything else is appended to.
func NewLoggerFromSettings(level string, file string) (*Logger, io.Closer, error) {
	logLevel, err := ParseLogLevel(level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer
	var closer io.Closer = nopCloser{}
	switch file {
	case "", "/dev/stderr":
		w = os.Stderr
	case "/dev/stdout":
		w = os.Stdout
	default:
		f, err := os.OpenFile(file, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", file, err)
		}
		w = f
		closer = f
	}

	l := NewLogger(w)
	l.SetLevel(ToLevel(logLevel))
	return l, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ParseLogLevel validates a configured level name. Names are case-sensitive.
func ParseLogLevel(logLevel string) (LogLevel, error) {
	if logLevel == "" {
		return LogLevelInfo, nil
	}

	switch LogLevel(logLevel) {
	case LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelOff:
		return LogLevel(logLevel), nil
	default:
		return "", fmt.Errorf("%w `%s`. Supported log levels are %s", ErrInvalidLogLevel, logLevel,
			strings.Join([]string{"Trace", "Debug", "Info", "Warning", "Off"}, ", "))
	}
}

// ToLevel converts a configured level name to a logger level.
func ToLevel(l LogLevel) Level {
	switch l {
	case LogLevelTrace:
		return TraceLevel
	case LogLevelDebug:
		return DebugLevel
	case LogLevelWarning:
		return WarnLevel
	case LogLevelOff:
		return OffLevel
	default:
		return InfoLevel
	}
}

// Trace logs a message at trace level.
func (l *Logger) Trace(msg any, keyvals ...any) {
	l.Log(TraceLevel, msg, keyvals...)
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(keyvals ...any) *Logger {
	return &Logger{Logger: l.Logger.With(keyvals...)}
}

// GetLevelString returns the current level as a lower-case string.
func (l *Logger) GetLevelString() string {
	switch l.GetLevel() {
	case TraceLevel:
		return "trace"
	case OffLevel:
		return "off"
	default:
		return l.GetLevel().String()
	}
}
