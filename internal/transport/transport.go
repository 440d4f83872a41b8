// Package transport moves newline-delimited text between veil and the host
// game relay. Every transport delivers inbound lines on a channel that is
// closed when the connection ends; the tick goroutine drains it.
package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/DiNaSoR/Veil/internal/config"
)

// ErrClosed is returned by Transmit after Close.
var ErrClosed = errors.New("transport closed")

// Transport is a bidirectional line channel to the host.
type Transport interface {
	// Transmit sends one command line.
	Transmit(text string) error
	// Lines yields inbound lines and is closed when the peer goes away.
	Lines() <-chan string
	// Err reports why Lines closed, or nil.
	Err() error
	Close() error
}

// Open builds the transport described by cfg. stdin and stdout are used by
// the stdio kind.
func Open(ctx context.Context, cfg config.TransportConfig, stdin io.Reader, stdout io.Writer, logger *slog.Logger) (Transport, error) {
	switch cfg.Kind {
	case "", config.TransportStdio:
		return NewStream(stdin, stdout, nil, logger), nil
	case config.TransportProcess:
		return StartProcess(ctx, cfg.Command, logger)
	case config.TransportWebSocket:
		return DialWebSocket(ctx, cfg.URL, logger)
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Kind)
	}
}

const (
	initialLineBuffer = 64 * 1024
	maxLineLength     = 1024 * 1024
)

// readLines scans r into out until EOF, error or quit, trimming carriage
// returns. A nil quit never fires.
func readLines(r io.Reader, out chan<- string, quit <-chan struct{}) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineLength)
	for scanner.Scan() {
		select {
		case out <- strings.TrimRight(scanner.Text(), "\r"):
		case <-quit:
			return nil
		}
	}
	return scanner.Err()
}

// Stream is a Transport over a reader and a writer, such as stdio or pipes.
type Stream struct {
	w      io.Writer
	closer io.Closer
	logger *slog.Logger
	lines  chan string

	mu     sync.Mutex
	closed bool
	err    error
	quit   chan struct{}
}

// NewStream starts reading lines from r. closer, when non-nil, is closed by
// Close.
func NewStream(r io.Reader, w io.Writer, closer io.Closer, logger *slog.Logger) *Stream {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Stream{w: w, closer: closer, logger: logger, lines: make(chan string, 64), quit: make(chan struct{})}
	go func() {
		defer close(s.lines)
		if r == nil {
			return
		}
		if err := readLines(r, s.lines, s.quit); err != nil {
			s.mu.Lock()
			closed := s.closed
			if !closed {
				s.err = err
			}
			s.mu.Unlock()
			if !closed {
				s.logger.Warn("transport read failed", "error", err)
			}
		}
	}()
	return s
}

func (s *Stream) Transmit(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.w == nil {
		return fmt.Errorf("transmit: %w", ErrClosed)
	}
	if _, err := io.WriteString(s.w, text+"\n"); err != nil {
		return fmt.Errorf("transmit: %w", err)
	}
	return nil
}

func (s *Stream) Lines() <-chan string { return s.lines }

func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops transmitting and closes the underlying closer. The reader
// goroutine stops delivering lines at once and ends at its next line, EOF
// or read error. Lines are closed once it has.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.quit)
	s.mu.Unlock()
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
