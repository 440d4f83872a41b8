package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiNaSoR/Veil/pkg/hud"
	"github.com/DiNaSoR/Veil/pkg/hud/widget"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

func at(anchor string, x, y float64) hud.Layout {
	return hud.Layout{Position: hud.Vec2{X: x, Y: y}, Anchor: hud.ResolveAnchor(anchor)}
}

func labelNode(c *Canvas, id, text string, l hud.Layout) hud.Node {
	n := c.CreateNode(id)
	n.SetLayout(l)
	n.SetVisual(hud.Visual{Kind: widget.KindLabel, Text: text, Progress: -1})
	return n
}

func TestCanvas_Rect_PlacesByAnchorAndScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		layout hud.Layout
		want   Rect
	}{
		{name: "success: top left offset scales down", text: "Hi", layout: at(manifest.AnchorTopLeft, 200, 400), want: Rect{Col: 10, Row: 10, W: 2, H: 1}},
		{name: "success: bottom right pivots on far corner", text: "Gold", layout: at(manifest.AnchorBottomRight, 0, 0), want: Rect{Col: 92, Row: 26, W: 4, H: 1}},
		{name: "success: center pivots on middle", text: "Gold", layout: at(manifest.AnchorCenter, 0, 0), want: Rect{Col: 46, Row: 13, W: 4, H: 1}},
		{name: "success: offscreen offset is clamped", text: "Hi", layout: at(manifest.AnchorTopLeft, 5000, -300), want: Rect{Col: 94, Row: 0, W: 2, H: 1}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := NewCanvas(1920, 1080)
			c.Resize(96, 27)
			labelNode(c, "n", tc.text, tc.layout)

			got, ok := c.Rect("n")
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCanvas_Rect_StacksChildrenInsidePanel(t *testing.T) {
	t.Parallel()
	c := NewCanvas(1920, 1080)
	c.Resize(96, 27)

	panel := c.CreateNode("p")
	panel.SetLayout(at(manifest.AnchorTopLeft, 0, 0))
	labelNode(c, "c1", "One", at(manifest.AnchorCenter, 0, 0)).SetParent("p")
	labelNode(c, "c2", "Two", at(manifest.AnchorCenter, 0, 0)).SetParent("p")
	panel.SetVisual(hud.Visual{Kind: widget.KindPanel, Progress: -1, Children: []string{"c1", "c2"}})

	pr, _ := c.Rect("p")
	c1, _ := c.Rect("c1")
	c2, _ := c.Rect("c2")
	assert.Equal(t, Rect{Col: 0, Row: 0, W: 16, H: 4}, pr)
	assert.Equal(t, Rect{Col: 1, Row: 1, W: 3, H: 1}, c1)
	assert.Equal(t, Rect{Col: 1, Row: 2, W: 3, H: 1}, c2)

	c.DestroyNode("p")
	c1, _ = c.Rect("c1")
	assert.Equal(t, Rect{Col: 47, Row: 13, W: 3, H: 1}, c1, "orphans return to the root")
}

func TestCanvas_Plain_DrawsProgressBar(t *testing.T) {
	t.Parallel()
	c := NewCanvas(1920, 1080)
	c.Resize(40, 3)
	n := c.CreateNode("xp")
	n.SetLayout(at(manifest.AnchorTopLeft, 0, 0))
	n.SetVisual(hud.Visual{Kind: widget.KindProgressBar, Label: "XP", Text: "50%", Progress: 0.5})
	theme := MonoTheme().Compile()

	assert.Empty(t, strings.TrimSpace(c.Plain(theme)), "hidden root draws nothing")

	c.SetRootVisible(true)
	lines := strings.Split(c.Plain(theme), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "XP ########-------- 50%", lines[0])
}

func TestCanvas_Plain_DrawsButtonAndPanel(t *testing.T) {
	t.Parallel()
	c := NewCanvas(1920, 1080)
	c.Resize(30, 6)
	c.SetRootVisible(true)

	p := c.CreateNode("p")
	p.SetLayout(at(manifest.AnchorTopLeft, 0, 0))
	p.SetVisual(hud.Visual{Kind: widget.KindPanel, Label: "Stats", Progress: -1})
	b := c.CreateNode("b")
	b.SetLayout(at(manifest.AnchorBottomRight, 0, 0))
	b.SetVisual(hud.Visual{Kind: widget.KindButton, Label: "Go", Progress: -1, Clickable: true})

	lines := strings.Split(c.Plain(MonoTheme().Compile()), "\n")
	assert.Equal(t, "╭ Stats ───────╮", lines[0])
	assert.Equal(t, "╰──────────────╯", lines[2])
	assert.Equal(t, strings.Repeat(" ", 24)+"[ Go ]", lines[5])
}

func TestCanvas_Drag_ReportsPositionInReferencePixels(t *testing.T) {
	t.Parallel()
	c := NewCanvas(1920, 1080)
	c.Resize(96, 27)
	c.SetRootVisible(true)
	n := labelNode(c, "n", "Hi", at(manifest.AnchorTopLeft, 200, 400))
	var got *hud.Vec2
	n.OnDragEnd(func(pos hud.Vec2) { got = &pos })

	require.True(t, c.Press(10, 10))
	assert.True(t, c.Dragging())
	c.Motion(15, 12)
	c.Release(15, 12)

	require.NotNil(t, got)
	assert.InDelta(t, 300, got.X, 1e-6)
	assert.InDelta(t, 480, got.Y, 1e-6)
	assert.False(t, c.Dragging())
	r, _ := c.Rect("n")
	assert.Equal(t, Rect{Col: 15, Row: 12, W: 2, H: 1}, r)
}

func TestCanvas_Release_ClicksOnlyClickableNodes(t *testing.T) {
	t.Parallel()
	c := NewCanvas(1920, 1080)
	c.Resize(96, 27)
	c.SetRootVisible(true)

	clicks := 0
	b := c.CreateNode("b")
	b.SetLayout(at(manifest.AnchorTopLeft, 0, 0))
	b.SetVisual(hud.Visual{Kind: widget.KindButton, Label: "Go", Clickable: true})
	b.OnClick(func() { clicks++ })
	l := labelNode(c, "l", "Hi", at(manifest.AnchorTopLeft, 0, 400))
	l.OnClick(func() { clicks += 100 })

	c.Press(1, 0)
	c.Release(1, 0)
	c.Press(0, 10)
	c.Release(0, 10)
	assert.Equal(t, 1, clicks)

	c.SetRootVisible(false)
	assert.False(t, c.Press(1, 0), "hidden hud ignores the mouse")
	c.Release(1, 0)
	assert.Equal(t, 1, clicks)
}

func TestCanvas_Summary_ListsVisibleValues(t *testing.T) {
	t.Parallel()
	c := NewCanvas(1920, 1080)
	bar := c.CreateNode("xp")
	bar.SetVisual(hud.Visual{Kind: widget.KindProgressBar, Label: "XP Lv3", Text: "40%", Progress: 0.4})
	labelNode(c, "l", "Blood: Rogue", at("", 0, 0))
	hidden := labelNode(c, "h", "secret", at("", 0, 0))
	hidden.SetVisible(false)
	c.CreateNode("b").SetVisual(hud.Visual{Kind: widget.KindButton, Label: "Go"})

	assert.Equal(t, []string{"XP Lv3: 40%", "Blood: Rogue"}, c.Summary())
}

func TestGrid_Text_HandlesWideRunes(t *testing.T) {
	t.Parallel()
	g := newGrid(5, 1)
	assert.Equal(t, 4, g.text(0, 0, "日本語", noStyle, 5), "third wide rune does not fit")
	assert.Equal(t, "日本", g.Plain())

	g.set(1, 0, "x", noStyle)
	assert.Equal(t, " x本", g.Plain())
}
