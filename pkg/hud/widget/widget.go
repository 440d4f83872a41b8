// Package widget provides the built-in HUD element kinds.
package widget

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/DiNaSoR/Veil/pkg/hud"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

// Built-in kind names.
const (
	KindProgressBar = "progressBar"
	KindLabel       = "label"
	KindButton      = "button"
	KindPanel       = "panel"
)

// maxIconWidth is how many terminal cells an icon glyph may take.
const maxIconWidth = 2

// RegisterBuiltins registers every built-in kind on reg.
func RegisterBuiltins(reg *hud.Registry) error {
	builtins := []struct {
		name    string
		factory hud.Factory
	}{
		{KindProgressBar, NewProgressBar},
		{KindLabel, NewLabel},
		{KindButton, NewButton},
		{KindPanel, NewPanel},
	}
	for _, b := range builtins {
		if err := reg.Register(b.name, b.factory); err != nil {
			return err
		}
	}
	return nil
}

func styleOf(def manifest.HudElementDef) manifest.StyleDef {
	if def.Style == nil {
		return manifest.StyleDef{}
	}
	return *def.Style
}

// iconGlyph reads the first line of an adapter icon asset as a glyph.
// Binary or missing icons yield "".
func iconGlyph(base *hud.Base) string {
	rel := base.Definition().Icon
	assets := base.Services().Assets
	if rel == "" || assets == nil {
		return ""
	}
	data, err := assets.Load(base.AdapterID(), rel)
	if err != nil || bytes.IndexByte(data, 0) >= 0 {
		return ""
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	if !sc.Scan() {
		return ""
	}
	return runewidth.Truncate(strings.TrimSpace(sc.Text()), maxIconWidth, "")
}
