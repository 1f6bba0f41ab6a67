package obs

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds a text slog logger for the given level name
// (debug, info, warn, error). Unknown names fall back to info.
func NewLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Err returns an attr for err, "no-error" when nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("err", "no-error")
	}
	return slog.String("err", err.Error())
}
