package hud

import (
	"log/slog"

	"github.com/DiNaSoR/Veil/pkg/binding"
	"github.com/DiNaSoR/Veil/pkg/clock"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

// Surface is the rendering capability components draw on. Nodes are keyed
// by component id and created under one shared HUD root.
type Surface interface {
	CreateNode(id string) Node
	DestroyNode(id string)
	SetRootVisible(visible bool)
	RootVisible() bool
}

// Node is one visual element owned by a component.
type Node interface {
	ID() string
	SetLayout(l Layout)
	Layout() Layout
	SetVisible(visible bool)
	SetVisual(v Visual)
	// SetParent nests the node under another node id; "" re-parents to the root.
	SetParent(parentID string)
	// OnDragEnd is called with the new position when a user drag finishes.
	OnDragEnd(fn func(pos Vec2))
	// OnClick is called when the node is activated.
	OnClick(fn func())
}

// Visual is the renderable state a component pushes to its node.
type Visual struct {
	Kind      string
	Label     string
	Text      string
	Progress  float64 // 0..1; negative when the kind has no progress
	Icon      string
	Style     manifest.StyleDef
	Clickable bool
	Children  []string
}

// LayoutStore persists user overrides per adapter and element.
type LayoutStore interface {
	Position(adapterID, elementID string) (Vec2, bool)
	Size(adapterID, elementID string) (Vec2, bool)
	SetPosition(adapterID, elementID string, pos Vec2) error
	SetSize(adapterID, elementID string, size Vec2) error
	Reset(adapterID string) error
}

// AssetSource loads adapter-relative files such as icons.
type AssetSource interface {
	Load(adapterID, relPath string) ([]byte, error)
}

// Owner is the adapter a component belongs to.
type Owner interface {
	ID() string
	Path() string
}

// Services are the shared collaborators handed to components on Initialize.
// Surface is required; the rest are optional.
type Services struct {
	Surface Surface
	Layout  LayoutStore
	Sender  binding.Sender
	Assets  AssetSource
	Clock   clock.Clock
	Logger  *slog.Logger
}

func (s Services) withDefaults() Services {
	if s.Clock == nil {
		s.Clock = clock.System{}
	}
	if s.Logger == nil {
		s.Logger = discardLogger()
	}
	return s
}
