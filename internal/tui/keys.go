package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"golang.org/x/text/cases"

	"github.com/DiNaSoR/Veil/pkg/menu"
)

type keyMap struct {
	Toggle   key.Binding
	Status   key.Binding
	Log      key.Binding
	Close    key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Up       key.Binding
	Down     key.Binding
	Activate key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:   key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "toggle hud")),
		Status:   key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "status")),
		Log:      key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "messages")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		NextTab:  key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab", "prev tab")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Activate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Status, k.Log, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Status, k.Log},
		{k.NextTab, k.PrevTab, k.Up, k.Down, k.Activate, k.Close},
		{k.Help, k.Quit},
	}
}

// menuKey pairs a menu id with its parsed hotkey.
type menuKey struct {
	id      string
	binding key.Binding
}

// normalizeHotkey turns a manifest hotkey such as "Ctrl + B" or
// "Control+Shift+F5" into bubbletea key syntax ("ctrl+b", "ctrl+shift+f5").
func normalizeHotkey(hotkey string) string {
	s := cases.Fold().String(strings.TrimSpace(hotkey))
	if s == "" {
		return ""
	}
	parts := strings.Split(s, "+")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch p {
		case "":
			continue
		case "control", "ctl":
			p = "ctrl"
		case "option", "meta":
			p = "alt"
		case "escape":
			p = "esc"
		case "return":
			p = "enter"
		}
		out = append(out, p)
	}
	return strings.Join(out, "+")
}

// menuKeys builds one binding per menu with a usable hotkey. Hotkeys that
// collide with the global bindings or an earlier menu are skipped.
func menuKeys(set *menu.Set, global keyMap) []menuKey {
	taken := make(map[string]bool)
	for _, b := range []key.Binding{global.Toggle, global.Status, global.Log, global.Close, global.Quit, global.Help} {
		for _, k := range b.Keys() {
			taken[k] = true
		}
	}
	var out []menuKey
	for _, m := range set.All() {
		k := normalizeHotkey(m.Hotkey())
		if k == "" || taken[k] {
			continue
		}
		taken[k] = true
		out = append(out, menuKey{
			id:      m.ID(),
			binding: key.NewBinding(key.WithKeys(k), key.WithHelp(k, m.Title())),
		})
	}
	return out
}
