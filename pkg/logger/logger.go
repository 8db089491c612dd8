// Package logger provides a structured, levelled logger built on log/slog.
//
// In production (APP_ENV=production) log lines are JSON for aggregators; in
// development they are human-readable text on stderr, so CLI output on
// stdout stays clean for piping.
//
//	logger.Info("cart refreshed", "items", 3)
//	// → time=... level=INFO msg="cart refreshed" items=3
package logger

import (
	"log/slog"
	"os"

	"github.com/shashiranjanraj/vitrine/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		opts := &slog.HandlerOptions{Level: slog.LevelInfo}
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		opts := &slog.HandlerOptions{Level: slog.LevelDebug}
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// With returns a logger pre-tagged with the given attributes, typically a
// component name:
//
//	log := logger.With("component", "cart")
//	log.Warn("refresh failed", "error", err)
func With(args ...any) *slog.Logger { return L.With(args...) }

// ─────────────────────────────────────────────
// Short-hand helpers (use base logger)
// ─────────────────────────────────────────────

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
