// Package notify turns inbound lines that match an adapter's notification
// patterns into toasts and sounds.
package notify

import (
	"io"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/DiNaSoR/Veil/pkg/clock"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

// Toast is one notification raised by a matching line.
type Toast struct {
	AdapterID string
	Text      string
	Style     string
	Sound     string
	At        time.Time
}

// Sink receives toasts.
type Sink interface {
	Notify(t Toast)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Toast)

func (f SinkFunc) Notify(t Toast) { f(t) }

// Player plays a named tone or an adapter sound asset.
type Player interface {
	Play(adapterID, sound string) error
}

// HandlerRegistry is the part of the command bridge the notifier needs.
type HandlerRegistry interface {
	RegisterHandler(pattern string, fn func(line string)) (cancel func(), err error)
}

// Notifier owns the bridge handlers registered for adapters' notifications.
type Notifier struct {
	handlers HandlerRegistry
	sink     Sink
	player   Player
	clock    clock.Clock
	logger   *slog.Logger

	mu       sync.Mutex
	attached map[string][]func()
	history  []Toast
	limit    int
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithPlayer plays each toast's sound through p.
func WithPlayer(p Player) Option { return func(n *Notifier) { n.player = p } }

// WithClock stamps toasts using c.
func WithClock(c clock.Clock) Option {
	return func(n *Notifier) {
		if c != nil {
			n.clock = c
		}
	}
}

// WithLogger sets the notifier's logger.
func WithLogger(l *slog.Logger) Option {
	return func(n *Notifier) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithHistory keeps the last limit toasts for Recent.
func WithHistory(limit int) Option { return func(n *Notifier) { n.limit = limit } }

// New creates a notifier that registers handlers on reg and emits to sink.
func New(reg HandlerRegistry, sink Sink, opts ...Option) *Notifier {
	n := &Notifier{
		handlers: reg,
		sink:     sink,
		clock:    clock.System{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		attached: make(map[string][]func()),
		limit:    50,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Attach registers one bridge handler per notification pattern. Patterns
// that fail to compile are logged and skipped. It returns how many were
// registered. Attaching an adapter again replaces its handlers.
func (n *Notifier) Attach(adapterID string, cfg *manifest.NotificationConfig) int {
	n.Detach(adapterID)
	if cfg == nil || n.handlers == nil {
		return 0
	}
	var cancels []func()
	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p.Match)
		if err != nil {
			n.logger.Warn("invalid notification pattern", "adapter", adapterID, "pattern", p.Match, "error", err)
			continue
		}
		pattern := p
		cancel, err := n.handlers.RegisterHandler(pattern.Match, func(line string) {
			n.raise(adapterID, pattern, re, line)
		})
		if err != nil {
			n.logger.Warn("notification handler rejected", "adapter", adapterID, "pattern", p.Match, "error", err)
			continue
		}
		cancels = append(cancels, cancel)
	}
	n.mu.Lock()
	n.attached[adapterID] = cancels
	n.mu.Unlock()
	return len(cancels)
}

// Detach removes every handler registered for adapterID.
func (n *Notifier) Detach(adapterID string) {
	n.mu.Lock()
	cancels := n.attached[adapterID]
	delete(n.attached, adapterID)
	n.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

// DetachAll removes every registered handler.
func (n *Notifier) DetachAll() {
	n.mu.Lock()
	ids := make([]string, 0, len(n.attached))
	for id := range n.attached {
		ids = append(ids, id)
	}
	n.mu.Unlock()
	for _, id := range ids {
		n.Detach(id)
	}
}

// Recent returns the retained toasts, oldest first.
func (n *Notifier) Recent() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Toast(nil), n.history...)
}

// raise uses the first capture group as the toast text when the pattern
// has one, otherwise the whole line.
func (n *Notifier) raise(adapterID string, p manifest.NotificationPattern, re *regexp.Regexp, line string) {
	text := line
	if m := re.FindStringSubmatch(line); len(m) > 1 && m[1] != "" {
		text = m[1]
	}
	t := Toast{AdapterID: adapterID, Text: text, Style: p.Style, Sound: p.Sound, At: n.clock.Now()}

	n.mu.Lock()
	n.history = append(n.history, t)
	if n.limit > 0 && len(n.history) > n.limit {
		n.history = n.history[len(n.history)-n.limit:]
	}
	n.mu.Unlock()

	n.logger.Debug("notification", "adapter", adapterID, "style", p.Style, "text", text)
	if n.sink != nil {
		n.sink.Notify(t)
	}
	if t.Sound != "" && n.player != nil {
		if err := n.player.Play(adapterID, t.Sound); err != nil {
			n.logger.Warn("notification sound failed", "adapter", adapterID, "sound", t.Sound, "error", err)
		}
	}
}
