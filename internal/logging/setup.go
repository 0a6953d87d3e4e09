package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup builds the service logger, tags every record with the service name and
// installs it as the slog default.
func Setup(level, format, serviceName string) (*slog.Logger, error) {
	logger, err := New(os.Stdout, level, format, serviceName)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

// New builds a logger writing to w without touching the slog default.
func New(w io.Writer, level, format, serviceName string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("log format %q unknown: want text|json", format)
	}

	return slog.New(handler).With("service", serviceName), nil
}
