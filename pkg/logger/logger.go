package logger

import (
	"io"
	"log/slog"
	"os"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"

	FormatJSON = "json"
	FormatText = "text"

	serviceKey = "service"
)

// Logger wraps slog so application code carries a single logger type around.
type Logger struct {
	*slog.Logger
}

type Config struct {
	Level     string
	Format    string
	Output    io.Writer
	AddSource bool
	Service   string
}

func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	var level slog.Level
	switch cfg.Level {
	case LevelDebug:
		level = slog.LevelDebug
	case LevelWarn:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Format == FormatText {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}

	if cfg.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{
			slog.String(serviceKey, cfg.Service),
		})
	}

	return &Logger{Logger: slog.New(handler)}
}

// Fatal logs at error level and exits with status 1.
// Reserved for errors that prevent the process from starting or continuing.
func (l *Logger) Fatal(msg string, args ...any) {
	l.Error(msg, args...)
	os.Exit(1)
}
