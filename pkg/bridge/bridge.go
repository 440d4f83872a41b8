// Package bridge correlates outbound text commands with inbound text lines
// and fans inbound lines out to observers and pattern handlers.
//
// The host protocol carries no request id. Correlation is positional: the
// first live pending command claims the next inbound line, whatever that line
// says. Responses arriving out of order, or unrelated chatter arriving first,
// are misattributed. Pending commands are abandoned only by timeout.
//
// A Bridge is driven from a single tick goroutine and is not safe for
// concurrent use.
package bridge

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/DiNaSoR/Veil/pkg/clock"
)

// DefaultTimeout is how long a command waits for its response.
const DefaultTimeout = 5 * time.Second

// Transmitter sends one raw text command to the host.
type Transmitter interface {
	Transmit(text string) error
}

// TransmitFunc adapts a function to Transmitter.
type TransmitFunc func(text string) error

// Transmit calls f.
func (f TransmitFunc) Transmit(text string) error { return f(text) }

// Observer receives protocol events, typically for metrics.
type Observer interface {
	CommandSent(command string)
	ResponseMatched(command string, age time.Duration)
	CommandExpired(command string, age time.Duration)
	HandlerFailed(pattern string)
}

type nopObserver struct{}

func (nopObserver) CommandSent(string)                    {}
func (nopObserver) ResponseMatched(string, time.Duration) {}
func (nopObserver) CommandExpired(string, time.Duration)  {}
func (nopObserver) HandlerFailed(string)                  {}

type pending struct {
	id       string
	command  string
	callback func(string)
	issuedAt time.Time
}

type handler struct {
	key     uint64
	pattern string
	re      *regexp.Regexp
	fn      func(string)
}

type subscriber struct {
	key uint64
	fn  func(string)
}

// Bridge is the command/response correlation layer.
type Bridge struct {
	transport Transmitter
	clock     clock.Clock
	timeout   time.Duration
	logger    *slog.Logger
	observer  Observer

	queue       []*pending
	subscribers []subscriber
	handlers    []handler
	nextKey     uint64
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithClock sets the time source used for correlation ages.
func WithClock(c clock.Clock) Option {
	return func(b *Bridge) { b.clock = c }
}

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithObserver sets the protocol event observer.
func WithObserver(o Observer) Option {
	return func(b *Bridge) {
		if o != nil {
			b.observer = o
		}
	}
}

// New creates a Bridge that transmits through t.
func New(t Transmitter, opts ...Option) *Bridge {
	b := &Bridge{
		transport: t,
		clock:     clock.System{},
		timeout:   DefaultTimeout,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SendCommand transmits text. When callback is non-nil, the next live inbound
// line is delivered to it. The correlation record is queued before the text
// is transmitted and withdrawn again if transmission fails.
func (b *Bridge) SendCommand(text string, callback func(response string)) {
	if text == "" {
		return
	}

	var rec *pending
	if callback != nil {
		rec = &pending{
			id:       uuid.NewString(),
			command:  text,
			callback: callback,
			issuedAt: b.clock.Now(),
		}
		b.queue = append(b.queue, rec)
	}

	if b.transport == nil {
		b.logger.Warn("command dropped: no transport", "command", text)
		b.withdraw(rec)
		return
	}
	if err := b.transport.Transmit(text); err != nil {
		b.logger.Warn("transmit failed", "command", text, "error", err)
		b.withdraw(rec)
		return
	}
	b.observer.CommandSent(text)
	if rec != nil {
		b.logger.Debug("command sent", "command", text, "correlation", rec.id, "pending", len(b.queue))
	}
}

func (b *Bridge) withdraw(rec *pending) {
	if rec == nil {
		return
	}
	for i := len(b.queue) - 1; i >= 0; i-- {
		if b.queue[i] == rec {
			b.queue = append(b.queue[:i], b.queue[i+1:]...)
			return
		}
	}
}

// ProcessMessage handles one inbound line: subscribers first, then at most one
// FIFO correlation match, then every matching pattern handler. Panics from
// callbacks and handlers are contained.
func (b *Bridge) ProcessMessage(line string) {
	if line == "" {
		return
	}

	for _, s := range append([]subscriber(nil), b.subscribers...) {
		b.safeCall("subscriber", s.fn, line)
	}

	now := b.clock.Now()
	for len(b.queue) > 0 {
		rec := b.queue[0]
		b.queue[0] = nil
		b.queue = b.queue[1:]

		age := now.Sub(rec.issuedAt)
		if age > b.timeout {
			b.logger.Debug("command expired", "command", rec.command, "correlation", rec.id, "age", age)
			b.observer.CommandExpired(rec.command, age)
			continue
		}
		b.logger.Debug("response matched", "command", rec.command, "correlation", rec.id, "age", age)
		b.observer.ResponseMatched(rec.command, age)
		b.safeCall("callback "+rec.command, rec.callback, line)
		break
	}

	for _, h := range append([]handler(nil), b.handlers...) {
		if !h.re.MatchString(line) {
			continue
		}
		if !b.safeCall("handler "+h.pattern, h.fn, line) {
			b.observer.HandlerFailed(h.pattern)
		}
	}
}

func (b *Bridge) safeCall(what string, fn func(string), line string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("inbound line consumer panicked", "consumer", what, "panic", fmt.Sprint(r))
			ok = false
		}
	}()
	fn(line)
	return true
}

// Subscribe registers an observer for every inbound line. The returned
// function removes it.
func (b *Bridge) Subscribe(fn func(line string)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	b.nextKey++
	key := b.nextKey
	b.subscribers = append(b.subscribers, subscriber{key: key, fn: fn})
	return func() {
		for i, s := range b.subscribers {
			if s.key == key {
				b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
				return
			}
		}
	}
}

// RegisterHandler invokes fn for every inbound line matching pattern.
// The same pattern may be registered by several owners. The returned function
// removes only this registration.
func (b *Bridge) RegisterHandler(pattern string, fn func(line string)) (cancel func(), err error) {
	if fn == nil {
		return nil, fmt.Errorf("register handler %q: nil func", pattern)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("register handler %q: %w", pattern, err)
	}
	b.nextKey++
	key := b.nextKey
	b.handlers = append(b.handlers, handler{key: key, pattern: pattern, re: re, fn: fn})
	return func() {
		for i, h := range b.handlers {
			if h.key == key {
				b.handlers = append(b.handlers[:i], b.handlers[i+1:]...)
				return
			}
		}
	}, nil
}

// UnregisterPattern removes every handler registered for pattern.
func (b *Bridge) UnregisterPattern(pattern string) {
	kept := b.handlers[:0]
	for _, h := range b.handlers {
		if h.pattern != pattern {
			kept = append(kept, h)
		}
	}
	for i := len(kept); i < len(b.handlers); i++ {
		b.handlers[i] = handler{}
	}
	b.handlers = kept
}

// Pending reports how many commands await a response.
func (b *Bridge) Pending() int {
	return len(b.queue)
}

// Handlers reports how many pattern handlers are registered.
func (b *Bridge) Handlers() int {
	return len(b.handlers)
}

// Reset abandons all pending commands and drops handlers and subscribers.
func (b *Bridge) Reset() {
	b.queue = nil
	b.handlers = nil
	b.subscribers = nil
}
