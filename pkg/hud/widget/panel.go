package widget

import (
	"errors"
	"fmt"

	"github.com/DiNaSoR/Veil/pkg/hud"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

// ErrNotBuilt is returned when a panel or child has no node yet.
var ErrNotBuilt = errors.New("component has no node")

// Panel is a background container that stacks child components vertically.
type Panel struct {
	*hud.Base
	node   hud.Node
	visual hud.Visual
}

// NewPanel is the panel factory.
func NewPanel(owner hud.Owner, def manifest.HudElementDef) (hud.Component, error) {
	p := &Panel{}
	p.Base = hud.NewBase(owner, def, p)
	return p, nil
}

// Build creates the background.
func (p *Panel) Build(node hud.Node) error {
	def := p.Definition()
	p.node = node
	p.visual = hud.Visual{
		Kind:     KindPanel,
		Label:    def.Label,
		Progress: -1,
		Style:    styleOf(def),
	}
	node.SetVisual(p.visual)
	return nil
}

type noded interface {
	ID() string
	Node() hud.Node
}

// AddChild nests child's node inside the panel.
func (p *Panel) AddChild(child hud.Component) error {
	c, ok := child.(noded)
	if !ok || c.Node() == nil {
		return fmt.Errorf("add %s to %s: %w", child.ID(), p.ID(), ErrNotBuilt)
	}
	if p.node == nil {
		return fmt.Errorf("add %s to %s: %w", child.ID(), p.ID(), ErrNotBuilt)
	}
	c.Node().SetParent(p.ID())
	p.visual.Children = append(p.visual.Children, child.ID())
	p.node.SetVisual(p.visual)
	return nil
}

// Children lists the nested component ids.
func (p *Panel) Children() []string {
	return append([]string(nil), p.visual.Children...)
}

// Release drops the node reference and forgets children.
func (p *Panel) Release() {
	p.node = nil
	p.visual.Children = nil
}
