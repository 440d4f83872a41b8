package widget

import (
	"regexp"

	"github.com/DiNaSoR/Veil/pkg/binding"
	"github.com/DiNaSoR/Veil/pkg/hud"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

var placeholderRE = regexp.MustCompile(`\{(\w+)\}`)

// Label shows text. A label containing {field} placeholders is filled from
// bound data; otherwise a "text" or "value" field replaces it.
type Label struct {
	*hud.Base
	node   hud.Node
	visual hud.Visual
}

// NewLabel is the label factory.
func NewLabel(owner hud.Owner, def manifest.HudElementDef) (hud.Component, error) {
	l := &Label{}
	l.Base = hud.NewBase(owner, def, l)
	return l, nil
}

// Build shows the manifest label.
func (l *Label) Build(node hud.Node) error {
	def := l.Definition()
	l.node = node
	l.visual = hud.Visual{
		Kind:     KindLabel,
		Text:     def.Label,
		Progress: -1,
		Icon:     iconGlyph(l.Base),
		Style:    styleOf(def),
	}
	l.node.SetVisual(l.visual)
	return nil
}

// SetText replaces the displayed text.
func (l *Label) SetText(text string) {
	l.visual.Text = text
	if l.node != nil {
		l.node.SetVisual(l.visual)
	}
}

// Text returns the displayed text.
func (l *Label) Text() string { return l.visual.Text }

// OnData fills placeholders or shows the text/value field.
func (l *Label) OnData(data binding.Data) {
	tmpl := l.Definition().Label
	if placeholderRE.MatchString(tmpl) {
		l.SetText(placeholderRE.ReplaceAllStringFunc(tmpl, func(m string) string {
			if v, ok := data[m[1:len(m)-1]]; ok {
				return v
			}
			return m
		}))
		return
	}
	for _, field := range []string{"text", "value"} {
		if v, ok := data[field]; ok {
			l.SetText(v)
			return
		}
	}
}

// Release drops the node reference.
func (l *Label) Release() {
	l.node = nil
}
