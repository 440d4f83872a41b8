package widget

import (
	"fmt"

	"github.com/DiNaSoR/Veil/pkg/binding"
	"github.com/DiNaSoR/Veil/pkg/hud"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

// ProgressBar shows a filled bar with a label and a percentage.
type ProgressBar struct {
	*hud.Base
	node    hud.Node
	visual  hud.Visual
	current float64
	total   float64
}

// NewProgressBar is the progressBar factory.
func NewProgressBar(owner hud.Owner, def manifest.HudElementDef) (hud.Component, error) {
	p := &ProgressBar{total: 100}
	p.Base = hud.NewBase(owner, def, p)
	return p, nil
}

// Build creates the bar at zero progress.
func (p *ProgressBar) Build(node hud.Node) error {
	def := p.Definition()
	p.node = node
	p.visual = hud.Visual{
		Kind:  KindProgressBar,
		Label: def.Label,
		Text:  "0%",
		Icon:  iconGlyph(p.Base),
		Style: styleOf(def),
	}
	p.current = 0
	p.node.SetVisual(p.visual)
	return nil
}

// SetProgress sets the fill to current/total, clamped to [0,1]. A
// non-positive total is treated as 1.
func (p *ProgressBar) SetProgress(current, total float64) {
	if total <= 0 {
		total = 1
	}
	p.current, p.total = current, total
	ratio := current / total
	switch {
	case ratio < 0:
		ratio = 0
	case ratio > 1:
		ratio = 1
	}
	p.visual.Progress = ratio
	p.visual.Text = fmt.Sprintf("%.0f%%", ratio*100)
	p.push()
}

// SetLabel replaces the bar label.
func (p *ProgressBar) SetLabel(text string) {
	p.visual.Label = text
	p.push()
}

// Progress returns the fill ratio.
func (p *ProgressBar) Progress() float64 { return p.visual.Progress }

// Label returns the current label.
func (p *ProgressBar) Label() string { return p.visual.Label }

// Values returns the raw current and total.
func (p *ProgressBar) Values() (current, total float64) { return p.current, p.total }

// OnData reads current/max or percent, and level, weapon or blood for the label.
func (p *ProgressBar) OnData(data binding.Data) {
	if data == nil {
		return
	}
	if cur, ok := data.Float("current"); ok {
		if total, ok := data.Float("max"); ok {
			p.SetProgress(cur, total)
		}
	} else if pct, ok := data.Float("percent"); ok {
		p.SetProgress(pct, 100)
	}

	if level, ok := data["level"]; ok {
		p.SetLabel(fmt.Sprintf("%s Lv%s", p.Definition().Label, level))
	} else if weapon, ok := data["weapon"]; ok {
		p.SetLabel(weapon)
	} else if blood, ok := data["blood"]; ok {
		p.SetLabel(blood)
	}
}

func (p *ProgressBar) push() {
	if p.node != nil {
		p.node.SetVisual(p.visual)
	}
}

// Release drops the node reference.
func (p *ProgressBar) Release() {
	p.node = nil
}
