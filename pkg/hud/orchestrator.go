package hud

import (
	"fmt"
	"log/slog"
	"time"
)

// Phase names the lifecycle step an orchestrator observer is told about.
type Phase string

const (
	PhaseInitialize Phase = "initialize"
	PhaseUpdate     Phase = "update"
	PhaseDestroy    Phase = "destroy"
)

// Observer is notified of contained component failures.
type Observer interface {
	ComponentFailed(id string, phase Phase)
}

type nopObserver struct{}

func (nopObserver) ComponentFailed(string, Phase) {}

// Orchestrator is the registry of live components. It owns update dispatch,
// per-component visibility toggles and the global HUD visibility.
type Orchestrator struct {
	svc      Services
	logger   *slog.Logger
	observer Observer

	components  map[string]Component
	order       []Component
	initialized bool
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithObserver reports contained failures to o.
func WithObserver(o Observer) OrchestratorOption {
	return func(orch *Orchestrator) {
		if o != nil {
			orch.observer = o
		}
	}
}

// NewOrchestrator creates an orchestrator handing svc to every component.
func NewOrchestrator(svc Services, opts ...OrchestratorOption) *Orchestrator {
	svc = svc.withDefaults()
	o := &Orchestrator{
		svc:        svc,
		logger:     svc.Logger,
		observer:   nopObserver{},
		components: make(map[string]Component),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Services returns the collaborators given to components.
func (o *Orchestrator) Services() Services { return o.svc }

// Init marks the orchestrator live. Update is a no-op before Init.
func (o *Orchestrator) Init() {
	if o.initialized {
		return
	}
	o.initialized = true
	o.logger.Info("ui orchestrator initialized")
}

// Initialized reports whether Init has run without a later Shutdown.
func (o *Orchestrator) Initialized() bool { return o.initialized }

// Register adds c. Ids must be unique across all adapters.
func (o *Orchestrator) Register(c Component) error {
	if c == nil {
		return fmt.Errorf("register component: nil")
	}
	if _, exists := o.components[c.ID()]; exists {
		return fmt.Errorf("register %s: %w", c.ID(), ErrDuplicateComponent)
	}
	o.components[c.ID()] = c
	o.order = append(o.order, c)
	o.logger.Debug("registered component", "component", c.ID())
	return nil
}

// Unregister removes a component without destroying it. It is safe to call
// during Update; the current pass skips removed components.
func (o *Orchestrator) Unregister(id string) (Component, bool) {
	c, ok := o.components[id]
	if !ok {
		return nil, false
	}
	delete(o.components, id)
	for i, existing := range o.order {
		if existing == c {
			o.order = append(o.order[:i:i], o.order[i+1:]...)
			break
		}
	}
	return c, true
}

// InitializeComponents initializes every enabled component, containing
// errors and panics per component. It returns how many became ready.
func (o *Orchestrator) InitializeComponents() int {
	ready := 0
	for _, c := range o.Components() {
		if !c.Enabled() {
			continue
		}
		if o.InitializeComponent(c) == nil {
			ready++
		}
	}
	return ready
}

// InitializeComponent initializes one component inside a containment boundary.
func (o *Orchestrator) InitializeComponent(c Component) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("initialize %s: panic: %v", c.ID(), p)
		}
		if err != nil {
			o.logger.Error("failed to initialize component", "component", c.ID(), "error", err)
			o.observer.ComponentFailed(c.ID(), PhaseInitialize)
		}
	}()
	return c.Initialize(o.svc)
}

// Update runs one tick over a snapshot of the registered components.
// A failing component is logged and skipped for this tick only.
func (o *Orchestrator) Update(dt time.Duration) {
	if !o.initialized {
		return
	}
	for _, c := range o.Components() {
		if o.components[c.ID()] != c {
			continue
		}
		if !c.Enabled() || !c.Visible() || !c.Ready() {
			continue
		}
		o.updateOne(c, dt)
	}
}

func (o *Orchestrator) updateOne(c Component, dt time.Duration) {
	defer func() {
		if p := recover(); p != nil {
			o.logger.Error("component update panicked", "component", c.ID(), "panic", fmt.Sprint(p))
			o.observer.ComponentFailed(c.ID(), PhaseUpdate)
		}
	}()
	if err := c.Update(dt); err != nil {
		o.logger.Error("component update failed", "component", c.ID(), "error", err)
		o.observer.ComponentFailed(c.ID(), PhaseUpdate)
	}
}

// Get returns the component with id.
func (o *Orchestrator) Get(id string) (Component, bool) {
	c, ok := o.components[id]
	return c, ok
}

// Lookup returns the component with id if it has concrete type T.
func Lookup[T Component](o *Orchestrator, id string) (T, bool) {
	var zero T
	c, ok := o.components[id]
	if !ok {
		return zero, false
	}
	t, ok := c.(T)
	return t, ok
}

// First returns the earliest registered component of type T.
func First[T Component](o *Orchestrator) (T, bool) {
	for _, c := range o.order {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// Components returns the components in registration order.
func (o *Orchestrator) Components() []Component {
	return append([]Component(nil), o.order...)
}

// Len reports how many components are registered.
func (o *Orchestrator) Len() int { return len(o.order) }

// Toggle flips one component's visibility.
func (o *Orchestrator) Toggle(id string) bool {
	c, ok := o.components[id]
	if ok {
		c.Toggle()
	}
	return ok
}

// SetVisible shows or hides the whole HUD.
func (o *Orchestrator) SetVisible(visible bool) {
	if o.svc.Surface != nil {
		o.svc.Surface.SetRootVisible(visible)
	}
}

// Visible reports the global HUD visibility.
func (o *Orchestrator) Visible() bool {
	return o.svc.Surface != nil && o.svc.Surface.RootVisible()
}

// ToggleVisible flips the global HUD visibility and returns the new state.
func (o *Orchestrator) ToggleVisible() bool {
	v := !o.Visible()
	o.SetVisible(v)
	return v
}

// Shutdown destroys every component and empties the registry.
func (o *Orchestrator) Shutdown() {
	for _, c := range o.order {
		o.destroyOne(c)
	}
	o.components = make(map[string]Component)
	o.order = nil
	o.initialized = false
}

func (o *Orchestrator) destroyOne(c Component) {
	defer func() {
		if p := recover(); p != nil {
			o.logger.Error("component destroy panicked", "component", c.ID(), "panic", fmt.Sprint(p))
			o.observer.ComponentFailed(c.ID(), PhaseDestroy)
		}
	}()
	c.Destroy()
}
