package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log/global"
)

// ServiceName identifies this service in exported logs and traces.
const ServiceName = "blog-agent"

var Logger *slog.Logger

// New creates a JSON logger writing to stdout only.
func New() *slog.Logger {
	return NewWithOTel(false)
}

// NewWithOTel creates a logger that also exports through the global OTel
// logger provider when enableOTel is set.
func NewWithOTel(enableOTel bool) *slog.Logger {
	return newLogger(os.Stdout, parseLevel(os.Getenv("LOG_LEVEL")), enableOTel)
}

// NewForCLI writes to stderr so command output on stdout stays clean.
func NewForCLI(level string) *slog.Logger {
	return newLogger(os.Stderr, parseLevel(level), false)
}

func newLogger(w io.Writer, level slog.Level, enableOTel bool) *slog.Logger {
	var handler slog.Handler
	if enableOTel {
		handler = NewMultiHandler(w, level)
	} else {
		handler = NewTraceContextHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}

	Logger = slog.New(handler)
	Logger.Debug("logger_initialized", slog.Bool("otel_enabled", enableOTel))
	return Logger
}

// MultiHandler sends logs to multiple handlers
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler writes JSON to w and exports through the otelslog bridge.
func NewMultiHandler(w io.Writer, level slog.Level) *MultiHandler {
	stdoutHandler := NewTraceContextHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))

	otelHandler := otelslog.NewHandler(
		ServiceName,
		otelslog.WithLoggerProvider(global.GetLoggerProvider()),
	)

	return &MultiHandler{
		handlers: []slog.Handler{
			stdoutHandler,
			otelHandler,
		},
	}
}

func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			_ = handler.Handle(ctx, r)
		}
	}
	return nil
}

func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: newHandlers}
}

func (h *MultiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &MultiHandler{handlers: newHandlers}
}
