// Package logger provides the structured, leveled logging capability shared
// by every package in the engine. It wraps go.uber.org/zap behind a small
// interface so callers never import zap directly.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the level of logging. Higher values denote more severe log messages.
type LogLevel int

const (
	// LogLevelDebug is for messages that are useful during software debugging.
	LogLevelDebug LogLevel = -1 // Zap's DEBUG level
	// LogLevelInfo is for informational messages, indicating normal operation.
	LogLevelInfo LogLevel = 0 // Zap's INFO level
	// LogLevelWarn is for messages that highlight potential issues in the system.
	LogLevelWarn LogLevel = 1 // Zap's WARN level
	// LogLevelError is for messages that highlight errors in the application's execution.
	LogLevelError LogLevel = 2 // Zap's ERROR level
	// LogLevelDPanic is for severe error conditions that are actionable in development.
	LogLevelDPanic LogLevel = 3 // Zap's DPANIC level
	// LogLevelPanic is for severe error conditions that should cause the program to panic.
	LogLevelPanic LogLevel = 4 // Zap's PANIC level
	// LogLevelFatal is for errors that require immediate program termination.
	LogLevelFatal LogLevel = 5 // Zap's FATAL level
	// LogLevelNone disables logging entirely.
	LogLevelNone LogLevel = 6
)

// ParseLogLevelFromString converts a string log level (e.g. from a config file
// or environment variable) to a strongly-typed LogLevel.
func ParseLogLevelFromString(levelStr string) LogLevel {
	switch levelStr {
	case "debug", "LogLevelDebug":
		return LogLevelDebug
	case "info", "LogLevelInfo", "":
		return LogLevelInfo
	case "warn", "LogLevelWarn":
		return LogLevelWarn
	case "error", "LogLevelError":
		return LogLevelError
	case "dpanic", "LogLevelDPanic":
		return LogLevelDPanic
	case "panic", "LogLevelPanic":
		return LogLevelPanic
	case "fatal", "LogLevelFatal":
		return LogLevelFatal
	case "none", "LogLevelNone":
		return LogLevelNone
	default:
		return LogLevelInfo
	}
}

// Logger is the structured logging capability used throughout the engine.
// Every package that logs (engine, redirect, dispatcher, backend) depends on
// this interface rather than on a concrete zap logger, so callers can supply
// their own implementation or mocklogger.MockLogger in tests.
type Logger interface {
	SetLevel(level LogLevel)
	GetLogLevel() LogLevel
	Debug(msg string, fields ...zapcore.Field)
	Info(msg string, fields ...zapcore.Field)
	Warn(msg string, fields ...zapcore.Field)
	Error(msg string, fields ...zapcore.Field) error
	Panic(msg string, fields ...zapcore.Field)
	Fatal(msg string, fields ...zapcore.Field)
	With(fields ...zapcore.Field) Logger
}

// defaultLogger is the zap-backed implementation of Logger.
type defaultLogger struct {
	logger   *zap.Logger
	logLevel LogLevel
}

// NewNop returns a Logger that discards everything; used as the nil-safe
// default when a caller does not supply one.
func NewNop() Logger {
	return &defaultLogger{logger: zap.NewNop(), logLevel: LogLevelNone}
}

// New builds a production-style JSON logger at the given level, the logger
// engine.ConfigFromEnv installs when a caller supplies no Logger of their own.
func New(level LogLevel) Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	config := zap.Config{
		Level:             zap.NewAtomicLevelAt(convertToZapLevel(level)),
		Encoding:          "json",
		DisableCaller:     true,
		DisableStacktrace: true,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	zapLogger := zap.Must(config.Build())
	return &defaultLogger{logger: zapLogger, logLevel: level}
}

func convertToZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LogLevelDebug:
		return zap.DebugLevel
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

func (d *defaultLogger) GetLogLevel() LogLevel { return d.logLevel }

func (d *defaultLogger) SetLevel(level LogLevel) { d.logLevel = level }

func (d *defaultLogger) With(fields ...zapcore.Field) Logger {
	return &defaultLogger{logger: d.logger.With(fields...), logLevel: d.logLevel}
}

func (d *defaultLogger) Debug(msg string, fields ...zapcore.Field) {
	if d.logLevel <= LogLevelDebug {
		d.logger.Debug(msg, fields...)
	}
}

func (d *defaultLogger) Info(msg string, fields ...zapcore.Field) {
	if d.logLevel <= LogLevelInfo {
		d.logger.Info(msg, fields...)
	}
}

func (d *defaultLogger) Warn(msg string, fields ...zapcore.Field) {
	if d.logLevel <= LogLevelWarn {
		d.logger.Warn(msg, fields...)
	}
}

// Error logs a message at the Error level and returns a plain error built
// from the message, matching the teacher's pattern of using the logger as an
// error-constructing helper at call sites like `return nil, log.Error(...)`.
func (d *defaultLogger) Error(msg string, fields ...zapcore.Field) error {
	if d.logLevel <= LogLevelError {
		d.logger.Error(msg, fields...)
	}
	return fmt.Errorf(msg)
}

func (d *defaultLogger) Panic(msg string, fields ...zapcore.Field) {
	if d.logLevel <= LogLevelPanic {
		d.logger.Panic(msg, fields...)
	}
}

func (d *defaultLogger) Fatal(msg string, fields ...zapcore.Field) {
	if d.logLevel <= LogLevelFatal {
		d.logger.Fatal(msg, fields...)
	}
}

// ToZapFields converts a variadic list of key-value pairs into a slice of
// zap.Field, for callers assembling fields dynamically.
func ToZapFields(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, val := keysAndValues[i], keysAndValues[i+1]
		fields = append(fields, zap.Any(key.(string), val))
	}
	return fields
}
