package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 5 * time.Second
)

// WebSocket sends each command as one text message. Inbound text messages
// may carry several newline-separated lines.
type WebSocket struct {
	conn   *websocket.Conn
	logger *slog.Logger
	lines  chan string
	quit   chan struct{}

	writeMu sync.Mutex
	mu      sync.Mutex
	closed  bool
	err     error
}

// DialWebSocket connects to a ws:// or wss:// relay.
func DialWebSocket(ctx context.Context, url string, logger *slog.Logger) (*WebSocket, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	dialer := &websocket.Dialer{
		Proxy:             http.ProxyFromEnvironment,
		HandshakeTimeout:  handshakeTimeout,
		EnableCompression: true,
	}
	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	w := &WebSocket{conn: conn, logger: logger.With("transport", "websocket", "url", url), lines: make(chan string, 64), quit: make(chan struct{})}
	go w.readLoop()
	w.logger.Info("relay connected")
	return w, nil
}

func (w *WebSocket) readLoop() {
	defer close(w.lines)
	for {
		messageType, payload, err := w.conn.ReadMessage()
		if err != nil {
			if !isNormalClose(err) && !w.isClosed() {
				w.mu.Lock()
				w.err = err
				w.mu.Unlock()
				w.logger.Warn("relay read failed", "error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		for _, line := range strings.Split(strings.TrimRight(string(payload), "\r\n"), "\n") {
			select {
			case w.lines <- strings.TrimRight(line, "\r"):
			case <-w.quit:
				return
			}
		}
	}
}

func isNormalClose(err error) bool {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return true
	}
	return errors.Is(err, io.EOF)
}

func (w *WebSocket) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *WebSocket) Transmit(text string) error {
	if w.isClosed() {
		return ErrClosed
	}
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := w.conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return fmt.Errorf("transmit: %w", err)
	}
	return nil
}

func (w *WebSocket) Lines() <-chan string { return w.lines }

func (w *WebSocket) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Close sends a close frame and closes the connection.
func (w *WebSocket) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.quit)
	w.mu.Unlock()

	w.writeMu.Lock()
	_ = w.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(2*time.Second))
	w.writeMu.Unlock()
	return w.conn.Close()
}
