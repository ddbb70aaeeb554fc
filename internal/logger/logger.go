// Package logger configures the application slog loggers.
//
// In dev the logs are rendered with the tint handler for readability; in all
// other environments structured JSON is written to stdout.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

type contextKey string

const (
	requestLoggerKey contextKey = "requestLogger"
	logAttrsKey      contextKey = "logAttrs"
)

// InitLogger creates the application logger and installs it as the slog
// default.
func InitLogger(level slog.Level, environment string) *slog.Logger {
	var handler slog.Handler

	if environment == "dev" {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	appLogger := slog.New(handler)
	slog.SetDefault(appLogger)

	return appLogger
}

// ParseLogLevel converts a log level string to a slog.Level.
// Unrecognized values fall back to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ContextWithRequestLogger returns a context carrying a request-scoped logger.
// The request logging middleware uses this to attach a logger that includes
// the request id.
func ContextWithRequestLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, requestLoggerKey, logger)
}

// ContextRequestLogger returns the request-scoped logger from the context,
// or the default logger if none was set.
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(requestLoggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// logAttrs collects attributes added by handlers and middleware during a
// request, for inclusion in the final request log line.
type logAttrs struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

// ContextWithLogAttrCollector returns a context with an empty attribute
// collector attached. Installed by the request logging middleware.
func ContextWithLogAttrCollector(ctx context.Context) context.Context {
	return context.WithValue(ctx, logAttrsKey, &logAttrs{})
}

// ContextWithLogAttrs adds attributes to the request's attribute collector.
// A no-op when no collector is present (e.g. outside a request).
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) {
	collector, ok := ctx.Value(logAttrsKey).(*logAttrs)
	if !ok {
		return
	}
	collector.mu.Lock()
	defer collector.mu.Unlock()
	collector.attrs = append(collector.attrs, attrs...)
}

// ContextLogAttrs returns the attributes collected during the request.
func ContextLogAttrs(ctx context.Context) []slog.Attr {
	collector, ok := ctx.Value(logAttrsKey).(*logAttrs)
	if !ok {
		return nil
	}
	collector.mu.Lock()
	defer collector.mu.Unlock()
	return append([]slog.Attr(nil), collector.attrs...)
}
