package internal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	level, ok := ParseLogLevel("debug")
	assert.True(t, ok)
	assert.Equal(t, LogLevelDebug, level)

	level, ok = ParseLogLevel(" TRACE ")
	assert.True(t, ok)
	assert.Equal(t, LogLevelTrace, level)

	level, ok = ParseLogLevel("verbose")
	assert.False(t, ok)
	assert.Equal(t, LogLevelInfo, level)
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(LogLevelInfo, &buf, "fc")

	logger.Info("limit mu=%.3f", 2.4365)
	logger.Debug("support extended to %d", 15)
	logger.Error("search failed")

	out := buf.String()
	assert.Contains(t, out, "[fc] [INFO] limit mu=2.437")
	assert.Contains(t, out, "[ERROR] search failed")
	assert.False(t, strings.Contains(out, "support extended"), "debug line should be filtered")
}

func TestNilAndNopLogger(t *testing.T) {
	var nilLogger *Logger
	assert.False(t, nilLogger.Enabled(LogLevelError))
	nilLogger.Info("ignored")

	nop := NopLogger()
	assert.False(t, nop.Enabled(LogLevelInfo))
	nop.Error("discarded")
}
