// Package infrastructure provides the cross-cutting runtime pieces shared
// by the CLIs: the structured logger and run-id context plumbing.
package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fundflow/internal/config"
)

// InitializeLogger creates the application logger from configuration and
// installs it as the slog default. Output is always JSON; depending on
// configuration it goes to stdout, a log file, or both. The returned
// closer flushes and closes the log file, if any.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, func(), error) {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	var output io.Writer = os.Stdout
	closer := func() {}

	switch strings.ToLower(cfg.Output) {
	case "file":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		output = file
		closer = func() { _ = file.Close() }
	case "both":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		output = io.MultiWriter(os.Stdout, file)
		closer = func() { _ = file.Close() }
	}

	handler := &runIDHandler{Handler: slog.NewJSONHandler(output, opts)}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger, closer, nil
}

// runIDHandler wraps a slog.Handler to inject the run id from context
type runIDHandler struct {
	slog.Handler
}

// Handle adds run_id to the record when present in context
func (h *runIDHandler) Handle(ctx context.Context, r slog.Record) error {
	if runID := GetRunID(ctx); runID != "" {
		r.AddAttrs(slog.String("run_id", runID))
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs returns a new handler with additional attributes
func (h *runIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &runIDHandler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup returns a new handler with the given group name
func (h *runIDHandler) WithGroup(name string) slog.Handler {
	return &runIDHandler{Handler: h.Handler.WithGroup(name)}
}

// openLogFile opens the log file for appending, creating its directory
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// parseLogLevel converts a string log level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
