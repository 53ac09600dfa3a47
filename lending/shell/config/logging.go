package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// NewLogger builds the application logger: JSON records appended to the audit log file at the configured level,
// plus human-readable records on stderr when verbose is set. Extra handlers, e.g. the OpenTelemetry bridge,
// receive every record as well.
//
// The returned closer closes the audit log file.
func NewLogger(cfg LogConfig, verbose bool, stderr io.Writer, extra ...slog.Handler) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, err
	}

	handlers := make([]slog.Handler, 0, 2+len(extra))
	closer := io.Closer(nopCloser{})

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, err
		}

		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}

		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		closer = f
	}

	if verbose && stderr != nil {
		handlers = append(handlers, slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	handlers = append(handlers, extra...)

	if len(handlers) == 0 {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), closer, nil
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0]), closer, nil
	}

	return slog.New(fanoutHandler(handlers)), closer, nil
}

// fanoutHandler passes every record to all handlers that are enabled for its level.
type fanoutHandler []slog.Handler

func (h fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h {
		if handler.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

func (h fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error

	for _, handler := range h {
		if handler.Enabled(ctx, record.Level) {
			errs = append(errs, handler.Handle(ctx, record.Clone()))
		}
	}

	return errors.Join(errs...)
}

func (h fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(fanoutHandler, 0, len(h))
	for _, handler := range h {
		next = append(next, handler.WithAttrs(attrs))
	}

	return next
}

func (h fanoutHandler) WithGroup(name string) slog.Handler {
	next := make(fanoutHandler, 0, len(h))
	for _, handler := range h {
		next = append(next, handler.WithGroup(name))
	}

	return next
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
