package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevelFromString(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":        LogLevelDebug,
		"LogLevelWarn": LogLevelWarn,
		"error":        LogLevelError,
		"bogus":        LogLevelInfo,
	}

	for input, want := range cases {
		assert.Equal(t, want, ParseLogLevelFromString(input))
	}
}

func TestDefaultLoggerRespectsLevel(t *testing.T) {
	log := BuildLogger(LogLevelWarn, LogOutputJSON)

	assert.Equal(t, LogLevelWarn, log.GetLogLevel())

	log.SetLevel(LogLevelError)
	assert.Equal(t, LogLevelError, log.GetLogLevel())
}

func TestWithReturnsIndependentLogger(t *testing.T) {
	log := BuildLogger(LogLevelInfo, LogOutputJSON)
	child := log.With(ToZapFields("request_id", "abc")...)

	child.SetLevel(LogLevelDebug)

	assert.Equal(t, LogLevelInfo, log.GetLogLevel())
	assert.Equal(t, LogLevelDebug, child.GetLogLevel())
}
