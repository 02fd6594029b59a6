package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.SetLevel(TraceLevel)

	logger.Trace("test trace message", "document", "web")

	assert.Contains(t, buf.String(), "test trace message")
	assert.Contains(t, buf.String(), "document=web")
}

func TestLogger_TraceSuppressedAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.SetLevel(DebugLevel)

	logger.Trace("hidden")
	logger.Debug("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestLogger_OffLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.SetLevel(OffLevel)

	logger.Error("nothing")
	assert.Empty(t, buf.String())
}

func TestLogger_GetLevelString(t *testing.T) {
	logger := New()

	logger.SetLevel(TraceLevel)
	assert.Equal(t, "trace", logger.GetLevelString())

	logger.SetLevel(DebugLevel)
	assert.Equal(t, "debug", strings.ToLower(logger.GetLevelString()))

	logger.SetLevel(InfoLevel)
	assert.Equal(t, "info", strings.ToLower(logger.GetLevelString()))

	logger.SetLevel(OffLevel)
	assert.Equal(t, "off", logger.GetLevelString())
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.With("run", "abc").Info("processing")
	assert.Contains(t, buf.String(), "run=abc")
}

func TestPackageLevelFunctions(t *testing.T) {
	oldLogger := Default()
	defer SetDefault(oldLogger)

	var buf bytes.Buffer
	testLogger := NewLogger(&buf)
	testLogger.SetLevel(TraceLevel)
	SetDefault(testLogger)

	Trace("package level trace")
	Debug("package level debug")
	Info("package level info")
	Warn("package level warn")
	Error("package level error")

	out := buf.String()
	for _, msg := range []string{"trace", "debug", "info", "warn", "error"} {
		assert.Contains(t, out, "package level "+msg)
	}
	assert.Equal(t, TraceLevel, GetLevel())
}

func TestSetDefault_IgnoresNil(t *testing.T) {
	before := Default()
	SetDefault(nil)
	assert.Same(t, before, Default())
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
		hasError bool
	}{
		{"Trace", LogLevelTrace, false},
		{"Debug", LogLevelDebug, false},
		{"Info", LogLevelInfo, false},
		{"Warning", LogLevelWarning, false},
		{"Off", LogLevelOff, false},
		{"", LogLevelInfo, false},
		{"trace", "", true},
		{"Invalid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLogLevel(tt.input)
			if tt.hasError {
				assert.ErrorIs(t, err, ErrInvalidLogLevel)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, level)
			}
		})
	}
}

func TestToLevel(t *testing.T) {
	assert.Equal(t, TraceLevel, ToLevel(LogLevelTrace))
	assert.Equal(t, DebugLevel, ToLevel(LogLevelDebug))
	assert.Equal(t, InfoLevel, ToLevel(LogLevelInfo))
	assert.Equal(t, WarnLevel, ToLevel(LogLevelWarning))
	assert.Equal(t, OffLevel, ToLevel(LogLevelOff))
}

func TestNewLoggerFromSettings_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tierconf.log")

	logger, closer, err := NewLoggerFromSettings("Debug", path)
	require.NoError(t, err)
	logger.Debug("written to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestNewLoggerFromSettings_InvalidLevel(t *testing.T) {
	_, _, err := NewLoggerFromSettings("Loud", "")
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}
