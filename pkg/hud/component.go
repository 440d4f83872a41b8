// Package hud holds the live side of adapters: the component contract and its
// lifecycle base, the type registry, and the orchestrator that drives updates.
//
// Everything here runs on the tick goroutine; none of it locks except the
// type registry, which may be extended from anywhere.
package hud

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/DiNaSoR/Veil/pkg/binding"
)

var (
	// ErrNoSurface is returned by Initialize when Services has no Surface.
	ErrNoSurface = errors.New("no ui surface")
	// ErrNodeUnavailable is returned when the surface refuses to create a node.
	ErrNodeUnavailable = errors.New("surface could not create node")
	// ErrDuplicateComponent is returned when registering an id already present.
	ErrDuplicateComponent = errors.New("component id already registered")
)

// Component is one live HUD element.
type Component interface {
	// ID is adapterId.type.elementId.
	ID() string
	AdapterID() string
	ElementID() string
	Kind() string

	Enabled() bool
	SetEnabled(enabled bool)
	Visible() bool
	SetVisible(visible bool)
	Ready() bool

	// Initialize (re)builds the component. It may be called again to rebuild
	// after the surface is recreated.
	Initialize(svc Services) error
	Update(dt time.Duration) error
	// Destroy releases the binding and node. Repeated calls are no-ops.
	Destroy()
	Toggle()
}

// Builder creates a kind's visuals on a freshly created node.
type Builder interface {
	Build(node Node) error
}

// DataReceiver handles parsed data from the component's binding.
type DataReceiver interface {
	OnData(data binding.Data)
}

// Ticker runs kind-specific per-tick work after the binding advances.
type Ticker interface {
	Tick(dt time.Duration) error
}

// Releaser frees kind-specific resources before the node is destroyed.
type Releaser interface {
	Release()
}

// BindingPolicy lets a kind decline automatic polling of its data source.
type BindingPolicy interface {
	WantsBinding() bool
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
