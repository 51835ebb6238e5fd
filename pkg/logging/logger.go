// Package logging configures the structured logger used by bumpversion.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with format information.
type Logger struct {
	*slog.Logger
	format string
}

// Format returns the logger format (json or text).
func (l *Logger) Format() string {
	return l.format
}

// ParseLevel converts a level name to a slog.Level. Unknown names are INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogger creates and configures a structured logger.
func SetupLogger(level, format string, output io.Writer) *Logger {
	if output == nil {
		output = os.Stderr
	}

	slogLevel := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     slogLevel,
		AddSource: slogLevel == slog.LevelDebug,
	}

	format = strings.ToLower(format)
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		format = "text"
		handler = slog.NewTextHandler(output, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
		format: format,
	}
}

// SetDefault installs a new logger as the slog default and returns it.
func SetDefault(level, format string, output io.Writer) *Logger {
	l := SetupLogger(level, format, output)
	slog.SetDefault(l.Logger)
	return l
}
