package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup configures the global logger to write to stdout
func Setup(level, format string) error {
	return SetupWriter(os.Stdout, level, format)
}

// SetupWriter configures the global logger to write to w
func SetupWriter(w io.Writer, level, format string) error {
	// Parse log level
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info", "":
		logLevel = slog.LevelInfo
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", level)
	}

	// Create handler based on format
	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	// Set the global logger
	slog.SetDefault(slog.New(handler))

	return nil
}

// WithComponent returns a logger with a component field
func WithComponent(component string) *slog.Logger {
	return slog.With("component", component)
}
