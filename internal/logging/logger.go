// Package logging configures log/slog for diagnostics.
//
// Diagnostics always go to stderr (or the writer handed to Setup) so that
// standard output carries nothing but the JSON document.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Setup builds the process logger and installs it as the slog default.
//
// Verbose enables debug output; otherwise only warnings and errors are shown.
// Format values: "text", "json" (default: "text").
// Every entry carries a run_id so lines from one invocation can be grouped.
func Setup(w io.Writer, verbose bool, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: levelFor(verbose),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler).With("run_id", uuid.NewString())
	slog.SetDefault(logger)
	return logger
}

func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

