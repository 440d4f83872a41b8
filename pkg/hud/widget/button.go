package widget

import (
	"github.com/DiNaSoR/Veil/pkg/hud"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

// Button sends its data source command when clicked. The command is an
// action, so the button never polls it.
type Button struct {
	*hud.Base
	node    hud.Node
	command string
	clicks  int
}

// NewButton is the button factory.
func NewButton(owner hud.Owner, def manifest.HudElementDef) (hud.Component, error) {
	b := &Button{}
	if def.DataSource != nil {
		b.command = def.DataSource.Command
	}
	b.Base = hud.NewBase(owner, def, b)
	return b, nil
}

// WantsBinding opts the button out of automatic refreshes.
func (b *Button) WantsBinding() bool { return false }

// Build creates a clickable node.
func (b *Button) Build(node hud.Node) error {
	def := b.Definition()
	label := def.Label
	if label == "" {
		label = "Button"
	}
	b.node = node
	node.SetVisual(hud.Visual{
		Kind:      KindButton,
		Label:     label,
		Progress:  -1,
		Icon:      iconGlyph(b.Base),
		Style:     styleOf(def),
		Clickable: true,
	})
	node.OnClick(b.Press)
	return nil
}

// Press sends the command, if any.
func (b *Button) Press() {
	b.clicks++
	if b.command == "" {
		return
	}
	if sender := b.Services().Sender; sender != nil {
		sender.SendCommand(b.command, nil)
	}
}

// Clicks reports how many times the button was pressed.
func (b *Button) Clicks() int { return b.clicks }

// Command returns the command sent on press.
func (b *Button) Command() string { return b.command }

// Release detaches the click handler.
func (b *Button) Release() {
	if b.node != nil {
		b.node.OnClick(nil)
		b.node = nil
	}
}
