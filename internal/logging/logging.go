package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/nfrund/hostkit/internal/config"
)

// New initializes a new slog logger and sets it as the default.
// The format comes from LOG_FORMAT: "text" for development, "json" for
// anything that parses logs. The level comes from LOG_LEVEL.
func New(cfg *config.Config) *slog.Logger {
	logger := slog.New(NewHandler(os.Stdout, cfg))
	slog.SetDefault(logger)
	return logger
}

// NewHandler builds the handler New installs, writing to w.
func NewHandler(w io.Writer, cfg *config.Config) slog.Handler {
	switch cfg.LogFormat {
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: cfg.SlogLevel(),
		})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     cfg.SlogLevel(),
			AddSource: true, // Adds source file and line number
		})
	}
}
