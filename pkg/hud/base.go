package hud

import (
	"fmt"
	"time"

	"github.com/DiNaSoR/Veil/pkg/binding"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

// ComponentID builds the adapterId.type.elementId identity.
func ComponentID(adapterID string, def manifest.HudElementDef) string {
	return adapterID + "." + def.Type + "." + def.ID
}

// Base implements the Component lifecycle. Kinds embed *Base and pass
// themselves as hooks so Base can call Build, OnData, Tick and Release.
type Base struct {
	owner Owner
	def   manifest.HudElementDef
	id    string
	hooks Builder

	svc     Services
	node    Node
	binding *binding.Binding

	enabled bool
	visible bool
	ready   bool
}

// NewBase creates the shared lifecycle state for a kind.
func NewBase(owner Owner, def manifest.HudElementDef, hooks Builder) *Base {
	return &Base{
		owner:   owner,
		def:     def,
		id:      ComponentID(owner.ID(), def),
		hooks:   hooks,
		enabled: true,
		visible: true,
	}
}

// ID returns the component id, "<adapter>.<type>.<element>".
func (b *Base) ID() string { return b.id }

// AdapterID returns the id of the owning adapter.
func (b *Base) AdapterID() string { return b.owner.ID() }

// ElementID returns the element id from the manifest.
func (b *Base) ElementID() string { return b.def.ID }

// Kind returns the element type as written in the manifest.
func (b *Base) Kind() string { return b.def.Type }

// Owner returns the adapter that spawned the component.
func (b *Base) Owner() Owner { return b.owner }

// Definition returns the manifest element the component was built from.
func (b *Base) Definition() manifest.HudElementDef { return b.def }

// Enabled reports whether the component takes part in updates.
func (b *Base) Enabled() bool { return b.enabled }

// SetEnabled turns updates on or off without touching the node.
func (b *Base) SetEnabled(enabled bool) { b.enabled = enabled }

// Visible reports the component's own visibility, not the HUD root's.
func (b *Base) Visible() bool { return b.visible }

// Ready reports whether Initialize has completed since the last teardown.
func (b *Base) Ready() bool { return b.ready }

// Node returns the current visual node, or nil before Initialize.
func (b *Base) Node() Node { return b.node }

// Binding returns the active data binding, or nil.
func (b *Base) Binding() *binding.Binding { return b.binding }

// Services returns the collaborators passed to Initialize.
func (b *Base) Services() Services { return b.svc }

// SetVisible shows or hides the component and its node.
func (b *Base) SetVisible(visible bool) {
	b.visible = visible
	if b.node != nil {
		b.node.SetVisible(visible)
	}
}

// Toggle flips visibility.
func (b *Base) Toggle() {
	b.SetVisible(!b.visible)
}

// Initialize tears down any previous node and binding, then builds the
// component afresh: node, manifest layout, persisted overrides, kind visuals,
// data binding.
func (b *Base) Initialize(svc Services) error {
	if svc.Surface == nil {
		return fmt.Errorf("initialize %s: %w", b.id, ErrNoSurface)
	}
	b.teardown()
	b.svc = svc.withDefaults()

	node := b.svc.Surface.CreateNode(b.id)
	if node == nil {
		return fmt.Errorf("initialize %s: %w", b.id, ErrNodeUnavailable)
	}
	b.node = node
	node.SetLayout(b.overlay(LayoutFromDef(b.def)))
	node.SetVisible(b.visible)
	node.OnDragEnd(b.persistPosition)

	if b.hooks != nil {
		if err := b.hooks.Build(node); err != nil {
			b.teardown()
			return fmt.Errorf("build %s: %w", b.id, err)
		}
	}

	if ds := b.def.DataSource; ds != nil && b.wantsBinding() {
		b.binding = binding.NewBinding(*ds, b.svc.Sender, b.svc.Clock, b.dataUpdated, b.svc.Logger.With("component", b.id))
		b.binding.Start()
	}

	b.ready = true
	b.svc.Logger.Info("initialized component", "component", b.id)
	return nil
}

func (b *Base) overlay(l Layout) Layout {
	if b.svc.Layout == nil {
		return l
	}
	if pos, ok := b.svc.Layout.Position(b.owner.ID(), b.def.ID); ok {
		l.Position = pos
	}
	if size, ok := b.svc.Layout.Size(b.owner.ID(), b.def.ID); ok {
		l.Size = size
	}
	return l
}

func (b *Base) persistPosition(pos Vec2) {
	if b.svc.Layout == nil {
		return
	}
	if err := b.svc.Layout.SetPosition(b.owner.ID(), b.def.ID, pos); err != nil {
		b.svc.Logger.Warn("save position failed", "component", b.id, "error", err)
	}
}

func (b *Base) wantsBinding() bool {
	if p, ok := b.hooks.(BindingPolicy); ok {
		return p.WantsBinding()
	}
	return true
}

func (b *Base) dataUpdated(data binding.Data) {
	if r, ok := b.hooks.(DataReceiver); ok {
		r.OnData(data)
	}
}

// Update advances the binding and the kind's Ticker. It does nothing unless
// the component is enabled, visible and ready.
func (b *Base) Update(dt time.Duration) error {
	if !b.enabled || !b.visible || !b.ready {
		return nil
	}
	if b.binding != nil {
		b.binding.Update(dt)
	}
	if t, ok := b.hooks.(Ticker); ok {
		return t.Tick(dt)
	}
	return nil
}

// Destroy stops the binding, releases kind resources and the node.
func (b *Base) Destroy() {
	b.teardown()
}

func (b *Base) teardown() {
	if b.binding != nil {
		b.binding.Stop()
		b.binding = nil
	}
	if b.node != nil {
		if r, ok := b.hooks.(Releaser); ok {
			r.Release()
		}
		if b.svc.Surface != nil {
			b.svc.Surface.DestroyNode(b.id)
		}
		b.node = nil
	}
	b.ready = false
}
