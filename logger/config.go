package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LogOutputJSON          = "json"
	LogOutputHumanReadable = "console"
)

// customCore wraps a zapcore.Core to keep "pid"/"application"-style trailing
// fields at the end of each log line regardless of call-site field order.
type customCore struct {
	zapcore.Core
}

func (c *customCore) With(fields []zapcore.Field) zapcore.Core {
	return &customCore{c.Core.With(fields)}
}

func (c *customCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	var trailing []zapcore.Field
	var rest []zapcore.Field
	for _, field := range fields {
		if field.Key == "pid" || field.Key == "application" {
			trailing = append(trailing, field)
		} else {
			rest = append(rest, field)
		}
	}
	return c.Core.Write(entry, append(rest, trailing...))
}

func (c *customCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return c.Core.Check(entry, checked)
}

// BuildLogger constructs the default zap-backed Logger. It configures
// ISO8601 timestamps and chooses JSON or console encoding based on
// logOutputFormat ("json" or "console").
func BuildLogger(logLevel LogLevel, logOutputFormat string) Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if logOutputFormat == LogOutputHumanReadable {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	encoding := "json"
	if logOutputFormat == LogOutputHumanReadable {
		encoding = "console"
	}

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(buildZapLevel(logLevel)),
		Development:       false,
		Encoding:          encoding,
		DisableCaller:     true,
		DisableStacktrace: true,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("logger: failed to build zap logger: %v", err))
	}

	wrapped := zap.New(&customCore{zapLogger.Core()})

	return &defaultLogger{logger: wrapped, logLevel: logLevel}
}

func buildZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LogLevelDebug:
		return zap.DebugLevel
	case LogLevelInfo:
		return zap.InfoLevel
	case LogLevelWarn:
		return zap.WarnLevel
	case LogLevelError:
		return zap.ErrorLevel
	case LogLevelDPanic:
		return zap.DPanicLevel
	case LogLevelPanic:
		return zap.PanicLevel
	case LogLevelFatal:
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}
