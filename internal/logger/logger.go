package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/digital-banking/account-service/internal/config"
)

// NewLogger builds the process-wide structured logger. Output is JSON on
// stdout; source locations are only recorded at debug level since they are
// noisy in production.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.Logging.Level)

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})

	l := slog.New(handler)
	l.Info("logger initialized", "level", level)
	return l
}

// parseLevel maps a config string to a slog level, defaulting to info for
// anything it does not recognize.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
