// Package logging wires zap for the CLI and the terminal UI.
package logging

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop().Sugar()

// Config selects the level and destination of log output.
type Config struct {
	Level string
	// Path is a file path, "stderr" or "stdout". Empty disables logging.
	Path string
}

// New builds a sugared logger from cfg.
func New(cfg Config) (*zap.SugaredLogger, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return zap.NewNop().Sugar(), nil
	}
	level := zapcore.InfoLevel
	if raw := strings.TrimSpace(cfg.Level); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("logging: invalid level %q: %w", raw, err)
		}
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return l.Sugar(), nil
}

// SetDefault replaces the base logger returned when a context carries none.
func SetDefault(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	logger = l
}

// Default returns the base logger.
func Default() *zap.SugaredLogger {
	return logger
}

type ctxLogger struct{}

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxLogger{}, l)
}

// FromContext returns the context logger, or the base logger when the
// context carries none.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxLogger{}).(*zap.SugaredLogger); ok && l != nil {
			return l
		}
	}
	return logger
}
