// SPDX-License-Identifier: MIT
// Package obslog wraps a *zap.SugaredLogger behind a small interface so the
// rest of the engine depends on neither zap's config surface nor a global
// logger instance.
package obslog

import (
	"strings"

	"go.uber.org/zap"
)

// Logger is the logging capability used throughout the engine. It is
// intentionally narrow: components log at Debug/Info/Warn/Error with
// structured key-value pairs, nothing more.
type Logger struct {
	sugared *zap.SugaredLogger
}

// New builds a Logger. mode == "prod"/"production" selects zap's production
// encoder (JSON, sampled); anything else (including "") selects the
// development encoder (console, unsampled, debug level).
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{sugared: z.Sugar()}, nil
}

// Noop returns a Logger that discards everything. Useful for tests and for
// callers that have not wired a real sink.
func Noop() *Logger {
	return &Logger{sugared: zap.NewNop().Sugar()}
}

// Sync flushes any buffered log entries. Call on shutdown.
func (l *Logger) Sync() {
	if l == nil || l.sugared == nil {
		return
	}
	_ = l.sugared.Sync()
}

func (l *Logger) Debug(msg string, kv ...interface{}) { l.log(l.sugared.Debugw, msg, kv...) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.log(l.sugared.Infow, msg, kv...) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.log(l.sugared.Warnw, msg, kv...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.log(l.sugared.Errorw, msg, kv...) }

func (l *Logger) log(fn func(string, ...interface{}), msg string, kv ...interface{}) {
	if l == nil || l.sugared == nil {
		return
	}
	fn(msg, kv...)
}

// With returns a Logger carrying the given structured fields on every
// subsequent call.
func (l *Logger) With(kv ...interface{}) *Logger {
	if l == nil || l.sugared == nil {
		return l
	}
	return &Logger{sugared: l.sugared.With(kv...)}
}
