package logger

import (
	"io"
	"log/slog"
	"strings"
)

// New builds a logger at the named level using the given handler factory,
// e.g. logger.New(cfg.LogLevel, logger.NewJSONHandler).
func New(level string, handler func(level slog.Level) slog.Handler) *slog.Logger {
	return slog.New(handler(ParseLevel(level)))
}

// ParseLevel accepts slog's level names with optional offsets ("info",
// "DEBUG", "warn+2") plus "warning". Anything else is info.
func ParseLevel(level string) slog.Level {
	level = strings.TrimSpace(level)
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// NewTestHandler discards output but still honours the level, so
// IsDebugEnabled behaves the same as in production.
func NewTestHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
}
