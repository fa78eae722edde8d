package logger

import (
	"context"
	"log/slog"
)

type ContextKey string

const (
	RequestIDKey  ContextKey = "blog.request.id"
	EntryPointKey ContextKey = "blog.entry_point"
)

// WithRequestID tags ctx so every log record written with it carries the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithEntryPoint records which surface (http, cli, worker) started the work.
func WithEntryPoint(ctx context.Context, entryPoint string) context.Context {
	return context.WithValue(ctx, EntryPointKey, entryPoint)
}

func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	if v, ok := ctx.Value(RequestIDKey).(string); ok {
		attrs = append(attrs, slog.String(string(RequestIDKey), v))
	}
	if v, ok := ctx.Value(EntryPointKey).(string); ok {
		attrs = append(attrs, slog.String(string(EntryPointKey), v))
	}
	return attrs
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug", "DEBUG":
		return slog.LevelDebug
	case "warn", "WARN", "warning", "WARNING":
		return slog.LevelWarn
	case "error", "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
