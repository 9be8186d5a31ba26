// Package logging provides structured logging for the detection engine.
// It wraps zap with printf-style helpers so call sites stay terse.
package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.SugaredLogger
	mu     sync.RWMutex
)

func init() {
	// Default logger so packages can log before InitFromEnv runs.
	logger = newLogger(zapcore.InfoLevel).Sugar()
}

func newLogger(level zapcore.Level) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Fall back to a no-op logger rather than failing process startup.
		return zap.NewNop()
	}
	return l
}

// InitFromEnv initializes the global logger from the LOG_LEVEL environment
// variable (debug, info, warn, error). Unknown values fall back to info.
func InitFromEnv() *zap.SugaredLogger {
	level := zapcore.InfoLevel
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = zapcore.DebugLevel
	case "warn", "warning":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(level).Sugar()
	return logger
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debugf logs a debug message
func Debugf(format string, args ...interface{}) {
	get().Debugf(format, args...)
}

// Infof logs an info message
func Infof(format string, args ...interface{}) {
	get().Infof(format, args...)
}

// Warnf logs a warning message
func Warnf(format string, args ...interface{}) {
	get().Warnf(format, args...)
}

// Errorf logs an error message
func Errorf(format string, args ...interface{}) {
	get().Errorf(format, args...)
}

// Fatalf logs an error message and exits the process
func Fatalf(format string, args ...interface{}) {
	get().Fatalf(format, args...)
}

// LogEvent emits a structured event record with arbitrary fields.
// Used for audit-style events (detector_failure, cascade_short_circuit, ...).
func LogEvent(event string, fields map[string]interface{}) {
	kv := make([]interface{}, 0, 2+2*len(fields))
	kv = append(kv, "event", event)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	get().Infow("event", kv...)
}
