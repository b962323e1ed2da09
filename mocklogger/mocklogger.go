// Package mocklogger provides a testify-based mock implementation of
// logger.Logger, for tests that assert on logging behavior without a real
// zap sink.
package mocklogger

import (
	"github.com/deploymenttheory/go-requests-engine/logger"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockLogger is a mock type for the logger.Logger interface.
type MockLogger struct {
	mock.Mock
	logLevel logger.LogLevel
}

// NewMockLogger creates a new MockLogger at LogLevelInfo.
func NewMockLogger() *MockLogger {
	return &MockLogger{logLevel: logger.LogLevelInfo}
}

// Ensure MockLogger implements the logger.Logger interface.
var _ logger.Logger = (*MockLogger)(nil)

func (m *MockLogger) GetLogLevel() logger.LogLevel {
	return m.logLevel
}

func (m *MockLogger) SetLevel(level logger.LogLevel) {
	m.logLevel = level
	m.Called(level)
}

func (m *MockLogger) With(fields ...zap.Field) logger.Logger {
	m.Called(fields)
	newMock := NewMockLogger()
	newMock.logLevel = m.logLevel
	return newMock
}

func (m *MockLogger) Debug(msg string, fields ...zap.Field) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields ...zap.Field) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields ...zap.Field) {
	m.Called(msg, fields)
}

// Error records the call and returns the error configured with
// On(...).Return(err), or nil when no error was configured.
func (m *MockLogger) Error(msg string, fields ...zap.Field) error {
	args := m.Called(msg, fields)
	if len(args) > 0 {
		if err, ok := args.Get(0).(error); ok {
			return err
		}
	}
	return nil
}

func (m *MockLogger) Panic(msg string, fields ...zap.Field) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields ...zap.Field) {
	m.Called(msg, fields)
}
