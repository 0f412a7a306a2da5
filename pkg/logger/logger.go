// Package logger provides structured logging using slog with deploy context support.
package logger

import (
	"context"
	"log/slog"
	"os"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// DeployIDKey is the context key for the deploy ID.
	DeployIDKey contextKey = "deploy_id"
	// BuildIDKey is the context key for the build ID.
	BuildIDKey contextKey = "build_id"
	// RequestIDKey is the context key for the HTTP request ID.
	RequestIDKey contextKey = "request_id"
)

// Logger wraps slog.Logger with additional context-aware methods.
type Logger struct {
	*slog.Logger
}

// New creates a new Logger with the specified level and format.
func New(level slog.Level, json bool) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	if json {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// Default creates a logger with default settings (INFO level, JSON format).
func Default() *Logger {
	return New(slog.LevelInfo, true)
}

// WithContext returns a new Logger with fields extracted from the context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	logger := l.Logger

	if deployID, ok := ctx.Value(DeployIDKey).(string); ok && deployID != "" {
		logger = logger.With("deploy_id", deployID)
	}

	if buildID, ok := ctx.Value(BuildIDKey).(string); ok && buildID != "" {
		logger = logger.With("build_id", buildID)
	}

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		logger = logger.With("request_id", requestID)
	}

	return &Logger{Logger: logger}
}

// WithDeployID returns a new Logger with the deploy ID field.
func (l *Logger) WithDeployID(deployID string) *Logger {
	return &Logger{
		Logger: l.Logger.With("deploy_id", deployID),
	}
}

// WithBuildID returns a new Logger with the build ID field.
func (l *Logger) WithBuildID(buildID string) *Logger {
	return &Logger{
		Logger: l.Logger.With("build_id", buildID),
	}
}
