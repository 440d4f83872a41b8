// Package veil assembles the HUD runtime: adapter discovery, the command
// bridge, component orchestration, menus and notifications. A Runtime is
// driven from one goroutine; call Tick and HandleLine from the same loop.
package veil

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"golang.org/x/text/cases"

	"github.com/DiNaSoR/Veil/internal/telemetry"
	"github.com/DiNaSoR/Veil/pkg/adapter"
	"github.com/DiNaSoR/Veil/pkg/asset"
	"github.com/DiNaSoR/Veil/pkg/bridge"
	"github.com/DiNaSoR/Veil/pkg/clock"
	"github.com/DiNaSoR/Veil/pkg/hud"
	"github.com/DiNaSoR/Veil/pkg/hud/widget"
	"github.com/DiNaSoR/Veil/pkg/menu"
	"github.com/DiNaSoR/Veil/pkg/notify"
)

var (
	// ErrAlreadyInitialized is returned by a second Init.
	ErrAlreadyInitialized = errors.New("runtime already initialized")
	// ErrNoSurface is returned by New without a surface.
	ErrNoSurface = errors.New("runtime needs a ui surface")
)

// recentLineLimit bounds the inbound line log kept for the message overlay.
const recentLineLimit = 500

// Options configures a Runtime. Surface is required.
type Options struct {
	AdaptersDir    string
	Surface        hud.Surface
	Layout         hud.LayoutStore
	Transmitter    bridge.Transmitter
	Clock          clock.Clock
	Logger         *slog.Logger
	CommandTimeout time.Duration
	StartVisible   bool
	// Disabled lists component ids registered with Enabled=false.
	Disabled []string
	// Sink receives notification toasts.
	Sink notify.Sink
	// Player overrides the sound player. When nil and Sound is set, a
	// BeepPlayer reading adapter assets is used.
	Player    notify.Player
	Sound     bool
	Telemetry *telemetry.Telemetry
	// Register adds extra component kinds after the built-ins.
	Register func(*hud.Registry) error
}

// Runtime owns every HUD service for one session.
type Runtime struct {
	opts   Options
	logger *slog.Logger

	bridge   *bridge.Bridge
	types    *hud.Registry
	orch     *hud.Orchestrator
	adapters *adapter.Registry
	menus    *menu.Set
	notifier *notify.Notifier
	assets   *asset.Loader
	metrics  *telemetry.Telemetry

	warnings    []adapter.Warning
	recent      []string
	initialized bool
}

// New wires the services. Nothing is discovered until Init.
func New(opts Options) (*Runtime, error) {
	if opts.Surface == nil {
		return nil, ErrNoSurface
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Telemetry == nil {
		opts.Telemetry = telemetry.New()
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = bridge.DefaultTimeout
	}

	r := &Runtime{
		opts:    opts,
		logger:  opts.Logger,
		metrics: opts.Telemetry,
		menus:   menu.NewSet(),
		assets:  asset.NewLoader(opts.AdaptersDir, asset.WithLogger(opts.Logger.With("component", "assets"))),
	}
	r.bridge = bridge.New(opts.Transmitter,
		bridge.WithClock(opts.Clock),
		bridge.WithTimeout(opts.CommandTimeout),
		bridge.WithLogger(opts.Logger.With("component", "bridge")),
		bridge.WithObserver(r.metrics),
	)

	r.types = hud.NewRegistry(opts.Logger.With("component", "registry"))
	if err := widget.RegisterBuiltins(r.types); err != nil {
		return nil, err
	}
	if opts.Register != nil {
		if err := opts.Register(r.types); err != nil {
			return nil, err
		}
	}

	r.orch = hud.NewOrchestrator(hud.Services{
		Surface: opts.Surface,
		Layout:  opts.Layout,
		Sender:  r.bridge,
		Assets:  r.assets,
		Clock:   opts.Clock,
		Logger:  opts.Logger.With("component", "hud"),
	}, hud.WithObserver(r.metrics))

	player := opts.Player
	if player == nil && opts.Sound {
		player = notify.NewBeepPlayer(r.assets, notify.WithPlayerLogger(opts.Logger.With("component", "sound")))
	}
	notifyOpts := []notify.Option{
		notify.WithClock(opts.Clock),
		notify.WithLogger(opts.Logger.With("component", "notify")),
	}
	if player != nil {
		notifyOpts = append(notifyOpts, notify.WithPlayer(player))
	}
	r.notifier = notify.New(r.bridge, notify.SinkFunc(r.toast), notifyOpts...)
	return r, nil
}

func (r *Runtime) toast(t notify.Toast) {
	r.metrics.ToastRaised(t.AdapterID, t.Style)
	if r.opts.Sink != nil {
		r.opts.Sink.Notify(t)
	}
}

// Init discovers adapters, spawns and initializes their components, attaches
// notification handlers and builds menus. Bad adapters are skipped and
// reported through Warnings.
func (r *Runtime) Init() error {
	if r.initialized {
		return ErrAlreadyInitialized
	}
	r.orch.Init()

	var warnings []adapter.Warning
	r.adapters, warnings = adapter.Discover(r.opts.AdaptersDir, r.logger.With("component", "discovery"))
	r.warnings = warnings

	disabled := make(map[string]bool, len(r.opts.Disabled))
	for _, id := range r.opts.Disabled {
		disabled[cases.Fold().String(id)] = true
	}

	for _, a := range r.adapters.All() {
		a.Load(r.types, r.orch)
		for _, c := range a.Components() {
			if disabled[cases.Fold().String(c.ID())] {
				c.SetEnabled(false)
				r.logger.Info("component disabled by config", "component", c.ID())
			}
		}
		r.notifier.Attach(a.ID(), a.Manifest().Notifications)
		for _, def := range a.Manifest().Menus {
			r.menus.Add(menu.New(a.ID(), def, r.bridge, r.opts.Clock, r.logger.With("component", "menu")))
		}
	}

	ready := r.orch.InitializeComponents()
	r.orch.SetVisible(r.opts.StartVisible)
	r.initialized = true
	r.logger.Info("veil initialized",
		"adapters", r.adapters.Len(),
		"components", r.orch.Len(),
		"ready", ready,
		"menus", r.menus.Len(),
		"warnings", len(warnings),
	)
	r.publish()
	return nil
}

// Initialized reports whether Init has run without a later Shutdown.
func (r *Runtime) Initialized() bool { return r.initialized }

// Tick advances every binding and component by dt.
func (r *Runtime) Tick(dt time.Duration) {
	if !r.initialized {
		return
	}
	r.orch.Update(dt)
	r.menus.Update(dt)
	r.publish()
}

func (r *Runtime) publish() {
	r.metrics.SetState(r.orch.Len(), r.bridge.Pending(), r.orch.Visible())
}

// HandleLine feeds one inbound host line to the bridge.
func (r *Runtime) HandleLine(line string) {
	if line == "" {
		return
	}
	r.metrics.LineReceived()
	r.recent = append(r.recent, line)
	if len(r.recent) > recentLineLimit {
		r.recent = r.recent[len(r.recent)-recentLineLimit:]
	}
	r.bridge.ProcessMessage(line)
}

// Toggle flips global HUD visibility and returns the new state.
func (r *Runtime) Toggle() bool {
	v := r.orch.ToggleVisible()
	r.logger.Debug("hud visibility toggled", "visible", v)
	return v
}

// Visible reports global HUD visibility.
func (r *Runtime) Visible() bool { return r.orch.Visible() }

// Shutdown releases everything Init built. It is safe to call repeatedly.
func (r *Runtime) Shutdown() {
	if !r.initialized {
		return
	}
	r.menus.Clear()
	r.notifier.DetachAll()
	r.adapters.Shutdown(r.orch)
	r.orch.Shutdown()
	r.bridge.Reset()
	r.assets.Clear()
	r.initialized = false
	r.logger.Info("veil shut down")
}

// Bridge returns the command bridge that correlates host responses.
func (r *Runtime) Bridge() *bridge.Bridge { return r.bridge }

// Orchestrator returns the live component set.
func (r *Runtime) Orchestrator() *hud.Orchestrator { return r.orch }

// Types returns the component factory registry.
func (r *Runtime) Types() *hud.Registry { return r.types }

// Menus returns every adapter menu.
func (r *Runtime) Menus() *menu.Set { return r.menus }

// Notifier returns the notification pattern handler.
func (r *Runtime) Notifier() *notify.Notifier { return r.notifier }

// Assets returns the adapter asset loader.
func (r *Runtime) Assets() *asset.Loader { return r.assets }

// Telemetry returns the metrics sink, which may be nil.
func (r *Runtime) Telemetry() *telemetry.Telemetry { return r.metrics }

// Warnings returns a copy of the discovery warnings from Init.
func (r *Runtime) Warnings() []adapter.Warning { return append([]adapter.Warning(nil), r.warnings...) }

// Adapters returns the discovered adapters, or nil before Init.
func (r *Runtime) Adapters() *adapter.Registry { return r.adapters }

// RecentLines returns the inbound line log, oldest first.
func (r *Runtime) RecentLines() []string { return append([]string(nil), r.recent...) }
