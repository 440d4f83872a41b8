// Package menu drives hotkey-opened, tabbed adapter menus. A tab's data
// source is polled only while its menu is open and the tab is selected.
package menu

import (
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/DiNaSoR/Veil/pkg/binding"
	"github.com/DiNaSoR/Veil/pkg/clock"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

// Menu is the live state of one MenuDef.
type Menu struct {
	adapterID string
	def       manifest.MenuDef
	sender    binding.Sender
	clock     clock.Clock
	logger    *slog.Logger

	open    bool
	tab     int
	action  int
	bound   *binding.Binding
	boundAt int
	data    binding.Data
}

// New creates a closed menu on its first tab.
func New(adapterID string, def manifest.MenuDef, sender binding.Sender, clk clock.Clock, logger *slog.Logger) *Menu {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Menu{
		adapterID: adapterID,
		def:       def,
		sender:    sender,
		clock:     clk,
		logger:    logger.With("menu", adapterID+"."+def.ID),
		boundAt:   -1,
	}
}

// ID is adapterId.menu.menuId.
func (m *Menu) ID() string { return m.adapterID + ".menu." + m.def.ID }

// AdapterID returns the id of the adapter that declared the menu.
func (m *Menu) AdapterID() string { return m.adapterID }

// Definition returns the manifest menu.
func (m *Menu) Definition() manifest.MenuDef { return m.def }

// Hotkey returns the configured toggle key, possibly empty.
func (m *Menu) Hotkey() string { return m.def.Hotkey }

// IsOpen reports whether the menu is shown.
func (m *Menu) IsOpen() bool { return m.open }

// TabIndex returns the selected tab.
func (m *Menu) TabIndex() int { return m.tab }

// ActionIndex returns the selected action within the current tab.
func (m *Menu) ActionIndex() int { return m.action }

// Title falls back to the menu id.
func (m *Menu) Title() string {
	if m.def.Title != "" {
		return m.def.Title
	}
	return m.def.ID
}

// Tab returns the selected tab.
func (m *Menu) Tab() (manifest.TabDef, bool) {
	if m.tab < 0 || m.tab >= len(m.def.Tabs) {
		return manifest.TabDef{}, false
	}
	return m.def.Tabs[m.tab], true
}

// Actions returns the selected tab's actions.
func (m *Menu) Actions() []manifest.ActionDef {
	tab, ok := m.Tab()
	if !ok || tab.Content == nil {
		return nil
	}
	return tab.Content.Actions
}

// Data returns the latest parsed data for the selected tab.
func (m *Menu) Data() binding.Data { return m.data }

// Open shows the menu and starts the selected tab's binding.
func (m *Menu) Open() {
	if m.open {
		return
	}
	m.open = true
	m.bind()
	m.logger.Debug("menu opened", "tab", m.tab)
}

// Close hides the menu and stops polling.
func (m *Menu) Close() {
	if !m.open {
		return
	}
	m.open = false
	m.unbind()
	m.logger.Debug("menu closed")
}

// Toggle flips the menu and reports whether it is now open.
func (m *Menu) Toggle() bool {
	if m.open {
		m.Close()
	} else {
		m.Open()
	}
	return m.open
}

// NextTab selects the following tab, wrapping around.
func (m *Menu) NextTab() { m.SelectTab(m.wrap(m.tab + 1)) }

// PrevTab selects the preceding tab, wrapping around.
func (m *Menu) PrevTab() { m.SelectTab(m.wrap(m.tab - 1)) }

func (m *Menu) wrap(i int) int {
	n := len(m.def.Tabs)
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// SelectTab switches to tab i, rebinding if the menu is open.
func (m *Menu) SelectTab(i int) bool {
	if i < 0 || i >= len(m.def.Tabs) {
		return false
	}
	if i == m.tab {
		return true
	}
	m.unbind()
	m.tab = i
	m.action = 0
	m.data = nil
	if m.open {
		m.bind()
	}
	return true
}

// NextAction moves the action cursor down, wrapping around.
func (m *Menu) NextAction() { m.moveAction(1) }

// PrevAction moves the action cursor up, wrapping around.
func (m *Menu) PrevAction() { m.moveAction(-1) }

func (m *Menu) moveAction(delta int) {
	n := len(m.Actions())
	if n == 0 {
		return
	}
	m.action = ((m.action+delta)%n + n) % n
}

// Activate sends the selected action's command. It reports the command
// sent, or false when nothing is selectable.
func (m *Menu) Activate() (string, bool) {
	actions := m.Actions()
	if !m.open || m.action >= len(actions) || m.sender == nil {
		return "", false
	}
	cmd := actions[m.action].Command
	if cmd == "" {
		return "", false
	}
	m.sender.SendCommand(cmd, nil)
	m.logger.Info("menu action", "action", actions[m.action].Label, "command", cmd)
	return cmd, true
}

// Update advances the open tab's binding.
func (m *Menu) Update(dt time.Duration) {
	if m.open && m.bound != nil {
		m.bound.Update(dt)
	}
}

// Destroy stops polling and closes the menu.
func (m *Menu) Destroy() {
	m.unbind()
	m.open = false
}

func (m *Menu) bind() {
	tab, ok := m.Tab()
	if !ok || tab.Content == nil || tab.Content.DataSource == nil || m.sender == nil {
		return
	}
	idx := m.tab
	m.bound = binding.NewBinding(*tab.Content.DataSource, m.sender, m.clock, func(d binding.Data) {
		if m.boundAt == idx {
			m.data = d
		}
	}, m.logger)
	m.boundAt = idx
	m.bound.Start()
}

func (m *Menu) unbind() {
	if m.bound != nil {
		m.bound.Stop()
		m.bound = nil
	}
	m.boundAt = -1
}

// Set holds every menu across adapters. At most one menu is open.
type Set struct {
	menus map[string]*Menu
}

// NewSet creates an empty set.
func NewSet() *Set { return &Set{menus: make(map[string]*Menu)} }

// Add registers m, replacing any menu with the same id.
func (s *Set) Add(m *Menu) {
	if old, ok := s.menus[m.ID()]; ok {
		old.Destroy()
	}
	s.menus[m.ID()] = m
}

// Get returns the menu with id.
func (s *Set) Get(id string) (*Menu, bool) {
	m, ok := s.menus[id]
	return m, ok
}

// All returns the menus sorted by id.
func (s *Set) All() []*Menu {
	out := make([]*Menu, 0, len(s.menus))
	for _, m := range s.menus {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Len reports how many menus are registered.
func (s *Set) Len() int { return len(s.menus) }

// Active returns the open menu.
func (s *Set) Active() (*Menu, bool) {
	for _, m := range s.All() {
		if m.IsOpen() {
			return m, true
		}
	}
	return nil, false
}

// Toggle opens menu id, closing any other, or closes it if already open.
func (s *Set) Toggle(id string) bool {
	m, ok := s.menus[id]
	if !ok {
		return false
	}
	if m.IsOpen() {
		m.Close()
		return false
	}
	s.CloseAll()
	m.Open()
	return true
}

// CloseAll closes every menu.
func (s *Set) CloseAll() {
	for _, m := range s.menus {
		m.Close()
	}
}

// Update advances the open menu.
func (s *Set) Update(dt time.Duration) {
	for _, m := range s.menus {
		m.Update(dt)
	}
}

// RemoveAdapter destroys and drops the adapter's menus.
func (s *Set) RemoveAdapter(adapterID string) {
	for id, m := range s.menus {
		if m.AdapterID() == adapterID {
			m.Destroy()
			delete(s.menus, id)
		}
	}
}

// Clear destroys every menu.
func (s *Set) Clear() {
	for _, m := range s.menus {
		m.Destroy()
	}
	s.menus = make(map[string]*Menu)
}
