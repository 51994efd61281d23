package results

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with results-specific context.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to w.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithEventID adds a CloudEvent id field to the logger.
func (l *Logger) WithEventID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("event_id", id),
	}
}

// WithEventType adds a CloudEvent type field to the logger.
func (l *Logger) WithEventType(eventType string) *Logger {
	return &Logger{
		Logger: l.Logger.With("event_type", eventType),
	}
}

// LogEnvelopeRead logs the outcome of parsing one envelope.
func (l *Logger) LogEnvelopeRead(ctx context.Context, eventType string, size int, failure bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "envelope read failed",
			"size", size,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "envelope read",
		"event_type", eventType,
		"size", size,
		"failure", failure,
	)
}

// LogEnvelopeWrite logs the outcome of serializing one envelope.
func (l *Logger) LogEnvelopeWrite(ctx context.Context, eventType string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "envelope write failed",
			"event_type", eventType,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "envelope written",
		"event_type", eventType,
		"size", size,
	)
}

// LogArchivePut logs a store of an envelope in an archive.
func (l *Logger) LogArchivePut(ctx context.Context, key string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "archive put failed",
			"key", key,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "archive put completed",
		"key", key,
		"size", size,
	)
}

// LogArchiveBatch logs a batch store.
func (l *Logger) LogArchiveBatch(ctx context.Context, count, failed int) {
	if failed > 0 {
		l.WarnContext(ctx, "archive batch completed with failures",
			"total", count,
			"failed", failed,
			"success", count-failed,
		)
		return
	}
	l.InfoContext(ctx, "archive batch completed",
		"count", count,
	)
}

// LogArchiveGet logs a load of an envelope from an archive.
func (l *Logger) LogArchiveGet(ctx context.Context, key string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "archive get failed",
			"key", key,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "archive get completed",
		"key", key,
		"size", size,
	)
}
