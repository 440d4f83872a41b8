// Package logging builds veil's slog logger. The TUI owns the terminal, so
// logs go to a file or are discarded.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
)

// Options selects the log destination and level.
type Options struct {
	// File is appended to. Empty means Fallback.
	File string
	// Level is debug, info, warn or error.
	Level string
	// Fallback receives logs when File is empty; nil discards them.
	Fallback io.Writer
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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

// New returns the logger, its summary counter and a close func for the file.
func New(opts Options) (*slog.Logger, *Summary, func() error, error) {
	w := opts.Fallback
	closeFn := func() error { return nil }
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}
	if w == nil {
		w = io.Discard
	}
	summary := NewSummary(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(opts.Level)}))
	return slog.New(summary), summary, closeFn, nil
}

// counts is shared by a Summary and every handler derived from it.
type counts struct {
	warns  atomic.Int64
	errors atomic.Int64
}

// Summary wraps a handler and counts warning and error records.
type Summary struct {
	next   slog.Handler
	counts *counts
}

// NewSummary wraps next.
func NewSummary(next slog.Handler) *Summary {
	return &Summary{next: next, counts: &counts{}}
}

func (s *Summary) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelWarn || s.next.Enabled(ctx, level)
}

func (s *Summary) Handle(ctx context.Context, r slog.Record) error {
	switch {
	case r.Level >= slog.LevelError:
		s.counts.errors.Add(1)
	case r.Level >= slog.LevelWarn:
		s.counts.warns.Add(1)
	}
	if !s.next.Enabled(ctx, r.Level) {
		return nil
	}
	return s.next.Handle(ctx, r)
}

func (s *Summary) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Summary{next: s.next.WithAttrs(attrs), counts: s.counts}
}

func (s *Summary) WithGroup(name string) slog.Handler {
	return &Summary{next: s.next.WithGroup(name), counts: s.counts}
}

// Counts returns the warnings and errors seen so far.
func (s *Summary) Counts() (warns, errors int64) {
	return s.counts.warns.Load(), s.counts.errors.Load()
}

// Run logs one summary line to logger each interval in which the counts
// changed, until ctx is done.
func (s *Summary) Run(ctx context.Context, logger *slog.Logger, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var lastW, lastE int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w, e := s.Counts()
			if w == lastW && e == lastE {
				continue
			}
			lastW, lastE = w, e
			logger.Info("log summary", "warnings", w, "errors", e)
		}
	}
}
