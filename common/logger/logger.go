// Package logger provides the unified logging surface for the spokesbot
// service, backed by zap. Components log through the package-level functions
// so tests can swap in a silent logger.
package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base atomic.Pointer[zap.SugaredLogger]

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	base.Store(l.Sugar())
}

// Init replaces the package logger. Pass a development logger for local runs
// or zap.NewNop() in tests.
func Init(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	base.Store(l.Sugar())
}

// NewDevelopment builds a human-readable console logger at the given level.
func NewDevelopment(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

// Debugf logs a debug message.
func Debugf(format string, args ...any) {
	base.Load().Debugf(format, args...)
}

// Infof logs an info message.
func Infof(format string, args ...any) {
	base.Load().Infof(format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...any) {
	base.Load().Warnf(format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...any) {
	base.Load().Errorf(format, args...)
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	_ = base.Load().Sync()
}
