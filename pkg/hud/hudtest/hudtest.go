// Package hudtest provides in-memory collaborators for exercising HUD
// components without a terminal.
package hudtest

import (
	"sort"

	"github.com/DiNaSoR/Veil/pkg/hud"
)

// Owner is a fixed adapter identity.
type Owner struct {
	AdapterID string
	Dir       string
}

func (o Owner) ID() string   { return o.AdapterID }
func (o Owner) Path() string { return o.Dir }

// Node records everything pushed to it.
type Node struct {
	id        string
	Current   hud.Layout
	Visible   bool
	Visual    hud.Visual
	Parent    string
	dragEnd   func(hud.Vec2)
	click     func()
	Destroyed bool
}

func (n *Node) ID() string                      { return n.id }
func (n *Node) SetLayout(l hud.Layout)          { n.Current = l }
func (n *Node) Layout() hud.Layout              { return n.Current }
func (n *Node) SetVisible(v bool)               { n.Visible = v }
func (n *Node) SetVisual(v hud.Visual)          { n.Visual = v }
func (n *Node) SetParent(id string)             { n.Parent = id }
func (n *Node) OnDragEnd(fn func(pos hud.Vec2)) { n.dragEnd = fn }
func (n *Node) OnClick(fn func())               { n.click = fn }

// Drag simulates the end of a user drag at pos.
func (n *Node) Drag(pos hud.Vec2) {
	n.Current.Position = pos
	if n.dragEnd != nil {
		n.dragEnd(pos)
	}
}

// Click simulates activation.
func (n *Node) Click() {
	if n.click != nil {
		n.click()
	}
}

// Surface is an in-memory hud.Surface.
type Surface struct {
	Nodes     map[string]*Node
	Created   int
	Removed   int
	Refuse    bool
	rootShown bool
}

// NewSurface creates an empty surface with the root shown.
func NewSurface() *Surface {
	return &Surface{Nodes: make(map[string]*Node), rootShown: true}
}

func (s *Surface) CreateNode(id string) hud.Node {
	if s.Refuse {
		return nil
	}
	n := &Node{id: id, Visible: true}
	s.Nodes[id] = n
	s.Created++
	return n
}

func (s *Surface) DestroyNode(id string) {
	if n, ok := s.Nodes[id]; ok {
		n.Destroyed = true
		delete(s.Nodes, id)
		s.Removed++
	}
}

func (s *Surface) SetRootVisible(v bool) { s.rootShown = v }
func (s *Surface) RootVisible() bool     { return s.rootShown }

// Node returns the live node for id.
func (s *Surface) Node(id string) *Node {
	return s.Nodes[id]
}

// IDs lists the live node ids, sorted.
func (s *Surface) IDs() []string {
	out := make([]string, 0, len(s.Nodes))
	for id := range s.Nodes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

type layoutKey struct{ adapter, element string }

// Layout is an in-memory hud.LayoutStore.
type Layout struct {
	Positions map[layoutKey]hud.Vec2
	Sizes     map[layoutKey]hud.Vec2
}

// NewLayout creates an empty store.
func NewLayout() *Layout {
	return &Layout{Positions: make(map[layoutKey]hud.Vec2), Sizes: make(map[layoutKey]hud.Vec2)}
}

func (l *Layout) Position(adapterID, elementID string) (hud.Vec2, bool) {
	v, ok := l.Positions[layoutKey{adapterID, elementID}]
	return v, ok
}

func (l *Layout) Size(adapterID, elementID string) (hud.Vec2, bool) {
	v, ok := l.Sizes[layoutKey{adapterID, elementID}]
	return v, ok
}

func (l *Layout) SetPosition(adapterID, elementID string, pos hud.Vec2) error {
	l.Positions[layoutKey{adapterID, elementID}] = pos
	return nil
}

func (l *Layout) SetSize(adapterID, elementID string, size hud.Vec2) error {
	l.Sizes[layoutKey{adapterID, elementID}] = size
	return nil
}

func (l *Layout) Reset(adapterID string) error {
	for k := range l.Positions {
		if k.adapter == adapterID {
			delete(l.Positions, k)
		}
	}
	for k := range l.Sizes {
		if k.adapter == adapterID {
			delete(l.Sizes, k)
		}
	}
	return nil
}

// Command is one recorded SendCommand call.
type Command struct {
	Text     string
	Callback func(string)
}

// Sender records commands instead of transmitting them.
type Sender struct {
	Sent []Command
}

func (s *Sender) SendCommand(text string, cb func(string)) {
	s.Sent = append(s.Sent, Command{Text: text, Callback: cb})
}

// Texts returns the command texts in send order.
func (s *Sender) Texts() []string {
	out := make([]string, len(s.Sent))
	for i, c := range s.Sent {
		out[i] = c.Text
	}
	return out
}

// Respond delivers line to the most recent command with a callback.
func (s *Sender) Respond(line string) bool {
	for i := len(s.Sent) - 1; i >= 0; i-- {
		if cb := s.Sent[i].Callback; cb != nil {
			cb(line)
			return true
		}
	}
	return false
}
