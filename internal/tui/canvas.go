package tui

import (
	"math"
	"sort"

	"github.com/mattn/go-runewidth"

	"github.com/DiNaSoR/Veil/pkg/hud"
	"github.com/DiNaSoR/Veil/pkg/hud/widget"
)

const (
	minBarCells  = 4
	defaultBar   = 16
	panelMinCols = 16
	panelMinRows = 3
	percentCells = 4
	maxNestDepth = 8
)

// Rect is a cell rectangle on the terminal.
type Rect struct {
	Col, Row, W, H int
}

// Contains reports whether the cell (col,row) is inside r.
func (r Rect) Contains(col, row int) bool {
	return col >= r.Col && col < r.Col+r.W && row >= r.Row && row < r.Row+r.H
}

// Canvas is a terminal hud.Surface. Nodes keep their layout in reference
// pixels; rendering scales them onto the current terminal grid.
type Canvas struct {
	refW, refH  float64
	cols, rows  int
	nodes       map[string]*canvasNode
	order       []string
	rootVisible bool

	drag *dragState
}

type dragState struct {
	id       string
	col, row int
	start    hud.Vec2
	moved    bool
}

// NewCanvas creates a canvas for manifests authored at refW x refH.
func NewCanvas(refW, refH float64) *Canvas {
	if refW <= 0 {
		refW = 1920
	}
	if refH <= 0 {
		refH = 1080
	}
	return &Canvas{refW: refW, refH: refH, cols: 80, rows: 24, nodes: make(map[string]*canvasNode)}
}

// Resize sets the terminal grid size.
func (c *Canvas) Resize(cols, rows int) {
	if cols > 0 {
		c.cols = cols
	}
	if rows > 0 {
		c.rows = rows
	}
}

// Size returns the terminal grid size.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// CreateNode replaces any node with the same id.
func (c *Canvas) CreateNode(id string) hud.Node {
	if _, exists := c.nodes[id]; exists {
		c.DestroyNode(id)
	}
	n := &canvasNode{id: id, visible: true, visual: hud.Visual{Progress: -1}}
	c.nodes[id] = n
	c.order = append(c.order, id)
	return n
}

// DestroyNode removes a node. Its children move to the root.
func (c *Canvas) DestroyNode(id string) {
	if _, ok := c.nodes[id]; !ok {
		return
	}
	delete(c.nodes, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	for _, n := range c.nodes {
		if n.parent == id {
			n.parent = ""
		}
	}
	if c.drag != nil && c.drag.id == id {
		c.drag = nil
	}
}

func (c *Canvas) SetRootVisible(visible bool) { c.rootVisible = visible }
func (c *Canvas) RootVisible() bool           { return c.rootVisible }

// IDs returns the node ids in creation order.
func (c *Canvas) IDs() []string { return append([]string(nil), c.order...) }

// Visual returns the last visual pushed to a node.
func (c *Canvas) Visual(id string) (hud.Visual, bool) {
	n, ok := c.nodes[id]
	if !ok {
		return hud.Visual{}, false
	}
	return n.visual, true
}

// Rect returns where a node is drawn on the current grid.
func (c *Canvas) Rect(id string) (Rect, bool) {
	n, ok := c.nodes[id]
	if !ok {
		return Rect{}, false
	}
	return c.rect(n, 0), true
}

func (c *Canvas) scale() (sx, sy float64) {
	return float64(c.cols) / c.refW, float64(c.rows) / c.refH
}

// extent is the node size in cells: the declared size scaled, or the
// intrinsic size of its visual.
func (c *Canvas) extent(n *canvasNode) (w, h int) {
	sx, sy := c.scale()
	if size := n.layout.Size; size.X > 0 && size.Y > 0 {
		w = int(math.Round(size.X * sx))
		h = int(math.Round(size.Y * sy))
	}
	iw, ih := c.intrinsic(n)
	if w < iw && (n.layout.Size.X <= 0 || n.visual.Kind == widget.KindPanel) {
		w = iw
	}
	if h < ih {
		h = ih
	}
	if w < 1 {
		w = 1
	}
	if w > c.cols {
		w = c.cols
	}
	if h > c.rows {
		h = c.rows
	}
	return w, h
}

func (c *Canvas) intrinsic(n *canvasNode) (w, h int) {
	v := n.visual
	switch v.Kind {
	case widget.KindProgressBar:
		return textWidth(prefixIcon(v.Icon, v.Label)) + 1 + defaultBar + 1 + percentCells, 1
	case widget.KindButton:
		return textWidth(prefixIcon(v.Icon, v.Label)) + 4, 1
	case widget.KindPanel:
		w, h = panelMinCols, panelMinRows
		if tw := textWidth(v.Label) + 4; tw > w {
			w = tw
		}
		inner := 0
		for _, id := range v.Children {
			child, ok := c.nodes[id]
			if !ok {
				continue
			}
			cw, ch := c.intrinsic(child)
			if cw+2 > w {
				w = cw + 2
			}
			inner += ch
		}
		if inner+2 > h {
			h = inner + 2
		}
		return w, h
	default:
		text := v.Text
		if text == "" {
			text = v.Label
		}
		return textWidth(prefixIcon(v.Icon, text)), 1
	}
}

// rect places a node: root nodes by anchor, pivot and offset; children
// stacked inside their parent.
func (c *Canvas) rect(n *canvasNode, depth int) Rect {
	w, h := c.extent(n)
	if parent, ok := c.nodes[n.parent]; ok && depth < maxNestDepth {
		pr := c.rect(parent, depth+1)
		row := pr.Row + 1
		for _, id := range parent.visual.Children {
			if id == n.id {
				break
			}
			if sib, ok := c.nodes[id]; ok && sib.parent == parent.id {
				_, sh := c.extent(sib)
				row += sh
			}
		}
		if w > pr.W-2 {
			w = max(pr.W-2, 1)
		}
		return Rect{Col: pr.Col + 1, Row: row, W: w, H: h}
	}

	sx, sy := c.scale()
	a := n.layout.Anchor
	anchorCol := a.Min.X * float64(c.cols)
	anchorRow := (1 - a.Min.Y) * float64(c.rows)
	col := anchorCol + n.layout.Position.X*sx - a.Pivot.X*float64(w)
	row := anchorRow + n.layout.Position.Y*sy - (1-a.Pivot.Y)*float64(h)
	return Rect{
		Col: clamp(int(math.Round(col)), 0, c.cols-w),
		Row: clamp(int(math.Round(row)), 0, c.rows-h),
		W:   w,
		H:   h,
	}
}

// drawOrder lists visible nodes, parents before children.
func (c *Canvas) drawOrder() []*canvasNode {
	out := make([]*canvasNode, 0, len(c.order))
	for _, id := range c.order {
		n := c.nodes[id]
		if c.shown(n, 0) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return c.depth(out[i]) < c.depth(out[j])
	})
	return out
}

func (c *Canvas) shown(n *canvasNode, depth int) bool {
	if !n.visible {
		return false
	}
	if parent, ok := c.nodes[n.parent]; ok && depth < maxNestDepth {
		return c.shown(parent, depth+1)
	}
	return true
}

func (c *Canvas) depth(n *canvasNode) int {
	d := 0
	for cur := n; d < maxNestDepth; d++ {
		parent, ok := c.nodes[cur.parent]
		if !ok {
			break
		}
		cur = parent
	}
	return d
}

// HitTest returns the topmost visible node under a cell.
func (c *Canvas) HitTest(col, row int) (string, bool) {
	if !c.rootVisible {
		return "", false
	}
	order := c.drawOrder()
	for i := len(order) - 1; i >= 0; i-- {
		if c.rect(order[i], 0).Contains(col, row) {
			return order[i].id, true
		}
	}
	return "", false
}

// Press starts a potential drag or click on the node under the cell.
func (c *Canvas) Press(col, row int) bool {
	id, ok := c.HitTest(col, row)
	if !ok {
		c.drag = nil
		return false
	}
	c.drag = &dragState{id: id, col: col, row: row, start: c.nodes[id].layout.Position}
	return true
}

// Motion moves the pressed node, keeping its layout in reference pixels.
// Nested nodes do not move.
func (c *Canvas) Motion(col, row int) {
	if c.drag == nil {
		return
	}
	n, ok := c.nodes[c.drag.id]
	if !ok || n.parent != "" {
		return
	}
	if col == c.drag.col && row == c.drag.row {
		return
	}
	sx, sy := c.scale()
	c.drag.moved = true
	n.layout.Position = hud.Vec2{
		X: c.drag.start.X + float64(col-c.drag.col)/sx,
		Y: c.drag.start.Y + float64(row-c.drag.row)/sy,
	}
}

// Release ends the gesture: a drag reports the final position, a press
// without movement is a click.
func (c *Canvas) Release(col, row int) {
	d := c.drag
	c.drag = nil
	if d == nil {
		return
	}
	n, ok := c.nodes[d.id]
	if !ok {
		return
	}
	if d.moved {
		if n.onDragEnd != nil {
			n.onDragEnd(n.layout.Position)
		}
		return
	}
	if n.onClick != nil && n.visual.Clickable {
		n.onClick()
	}
}

// Dragging reports whether a gesture is in progress.
func (c *Canvas) Dragging() bool { return c.drag != nil }

// Render draws every visible node. A hidden root draws nothing.
func (c *Canvas) Render(theme *CompiledTheme) string {
	return c.paint(theme).String()
}

// Plain renders without styles, for headless output and tests.
func (c *Canvas) Plain(theme *CompiledTheme) string {
	return c.paint(theme).Plain()
}

func (c *Canvas) paint(theme *CompiledTheme) *grid {
	g := newGrid(c.cols, c.rows)
	if !c.rootVisible {
		return g
	}
	for _, n := range c.drawOrder() {
		drawNode(g, theme, n.visual, c.rect(n, 0))
	}
	return g
}

// Summary lists each visible node as "label: value" for line output.
func (c *Canvas) Summary() []string {
	var out []string
	for _, id := range c.order {
		n := c.nodes[id]
		if !c.shown(n, 0) {
			continue
		}
		v := n.visual
		switch v.Kind {
		case widget.KindPanel, widget.KindButton:
			continue
		case widget.KindProgressBar:
			out = append(out, v.Label+": "+v.Text)
		default:
			text := v.Text
			if text == "" {
				text = v.Label
			}
			if text != "" {
				out = append(out, text)
			}
		}
	}
	return out
}

type canvasNode struct {
	id        string
	layout    hud.Layout
	visible   bool
	visual    hud.Visual
	parent    string
	onDragEnd func(hud.Vec2)
	onClick   func()
}

func (n *canvasNode) ID() string                      { return n.id }
func (n *canvasNode) SetLayout(l hud.Layout)          { n.layout = l }
func (n *canvasNode) Layout() hud.Layout              { return n.layout }
func (n *canvasNode) SetVisible(v bool)               { n.visible = v }
func (n *canvasNode) SetVisual(v hud.Visual)          { n.visual = v }
func (n *canvasNode) SetParent(id string)             { n.parent = id }
func (n *canvasNode) OnDragEnd(fn func(pos hud.Vec2)) { n.onDragEnd = fn }
func (n *canvasNode) OnClick(fn func())               { n.onClick = fn }

func textWidth(s string) int { return runewidth.StringWidth(s) }

func prefixIcon(icon, text string) string {
	if icon == "" {
		return text
	}
	if text == "" {
		return icon
	}
	return icon + " " + text
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
