package binding

import (
	"log/slog"
	"time"

	"github.com/DiNaSoR/Veil/pkg/clock"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

// Binding is a polling policy for one data source. The interval is the
// trigger cadence; the parser cache decides whether a trigger actually sends.
type Binding struct {
	def     manifest.DataSourceDef
	parser  *Parser
	active  bool
	elapsed time.Duration
}

// NewBinding wires a parser to a single downstream callback. onData only
// fires while the binding is active; responses to commands sent before Stop
// still update the parser cache.
func NewBinding(def manifest.DataSourceDef, sender Sender, clk clock.Clock, onData func(Data), logger *slog.Logger) *Binding {
	b := &Binding{def: def, parser: NewParser(def, sender, clk, logger)}
	b.parser.OnData(func(d Data) {
		if b.active && onData != nil {
			onData(d)
		}
	})
	return b
}

// Start activates the binding and requests initial data immediately.
func (b *Binding) Start() {
	b.active = true
	b.elapsed = 0
	b.parser.RequestRefresh()
}

// Stop deactivates the binding. Update is a no-op until Start is called again.
func (b *Binding) Stop() {
	b.active = false
}

// Update advances the refresh timer by dt. Once the interval elapses the timer
// resets and a refresh is sent only if the cache has expired.
func (b *Binding) Update(dt time.Duration) {
	interval := b.def.Interval()
	if !b.active || interval <= 0 {
		return
	}
	b.elapsed += dt
	if b.elapsed < interval {
		return
	}
	b.elapsed = 0
	if !b.parser.IsCacheValid() {
		b.parser.RequestRefresh()
	}
}

// ForceRefresh sends the command regardless of interval and cache.
func (b *Binding) ForceRefresh() {
	b.parser.RequestRefresh()
}

// Active reports whether the binding is started.
func (b *Binding) Active() bool {
	return b.active
}

// Data returns the most recent parsed data, or nil.
func (b *Binding) Data() Data {
	return b.parser.LastData()
}

// Parser exposes the underlying parser.
func (b *Binding) Parser() *Parser {
	return b.parser
}
