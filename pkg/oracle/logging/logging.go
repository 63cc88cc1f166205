package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const redactedPlaceholder = "[redacted]"

// Logger receives the environment and connection lifecycle records emitted
// by package oracle. Every method takes the caller's context so handlers can
// pick up request-scoped values; args are slog key/value pairs or slog.Attr.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a Logger that adds args to every record, e.g. the
	// conn_id of a Connection.
	With(args ...any) Logger
}

// New adapts l to Logger. A nil l logs through slog.Default() as configured
// at the time of each call.
func New(l *slog.Logger) Logger {
	return slogAdapter{l: l}
}

// Discard returns a Logger that drops every record.
func Discard() Logger {
	return slogAdapter{l: slog.New(slog.DiscardHandler)}
}

type slogAdapter struct {
	l *slog.Logger
}

func (a slogAdapter) logger() *slog.Logger {
	if a.l == nil {
		return slog.Default()
	}
	return a.l
}

func (a slogAdapter) Debug(ctx context.Context, msg string, args ...any) {
	a.logger().Log(ctx, slog.LevelDebug, msg, args...)
}

func (a slogAdapter) Info(ctx context.Context, msg string, args ...any) {
	a.logger().Log(ctx, slog.LevelInfo, msg, args...)
}

func (a slogAdapter) Warn(ctx context.Context, msg string, args ...any) {
	a.logger().Log(ctx, slog.LevelWarn, msg, args...)
}

func (a slogAdapter) Error(ctx context.Context, msg string, args ...any) {
	a.logger().Log(ctx, slog.LevelError, msg, args...)
}

func (a slogAdapter) With(args ...any) Logger {
	return slogAdapter{l: a.logger().With(args...)}
}

// Redacted stands in for a credential attribute. It takes only the key, so
// the secret never reaches the handler:
//
//	log.Debug(ctx, "session begin", logging.Redacted("password"))
func Redacted(key string) slog.Attr {
	return slog.String(key, redactedPlaceholder)
}

// Placeholder is the value Redacted attributes carry.
func Placeholder() string {
	return redactedPlaceholder
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to a slog
// level. The empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging: unknown level %q", s)
	}
}
