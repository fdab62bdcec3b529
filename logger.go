package querygate

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/querygate/statement"
)

// Logger wraps slog.Logger with querygate-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithRelation adds a relation field to the logger.
func (l *Logger) WithRelation(relation string) *Logger {
	return &Logger{
		Logger: l.Logger.With("relation", relation),
	}
}

// LogFlush logs a pending-write flush.
func (l *Logger) LogFlush(ctx context.Context, err error) {
	if err != nil {
		l.ErrorContext(ctx, "pending-write flush failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "pending-write flush completed")
	}
}

// LogRoute logs the interception decision for one statement.
func (l *Logger) LogRoute(ctx context.Context, op statement.OpKind, route statement.Route) {
	l.DebugContext(ctx, "statement classified",
		"op", op.String(),
		"route", route.String(),
	)
}

// LogFallback logs a fail-open delegation after a translation failure.
func (l *Logger) LogFallback(ctx context.Context, err error) {
	l.DebugContext(ctx, "translation failed, delegating to host",
		"error", err,
	)
}

// LogDispatch logs an embedded-handler dispatch.
func (l *Logger) LogDispatch(ctx context.Context, op statement.OpKind, err error) {
	if err != nil {
		l.ErrorContext(ctx, "embedded execution failed",
			"op", op.String(),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "embedded execution completed",
			"op", op.String(),
		)
	}
}
