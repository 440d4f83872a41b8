package hud_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DiNaSoR/Veil/pkg/hud"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

func TestResolveAnchor_MatchesFixedMapping_When_NameKnown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		x, y float64
	}{
		{name: "topLeft", x: 0, y: 1},
		{name: "topRight", x: 1, y: 1},
		{name: "bottomLeft", x: 0, y: 0},
		{name: "bottomRight", x: 1, y: 0},
		{name: "center", x: 0.5, y: 0.5},
		{name: "BOTTOMRIGHT", x: 1, y: 0},
		{name: "topright", x: 1, y: 1},
	}
	for _, tc := range tests {
		tc := tc
		t.Run("success: "+tc.name, func(t *testing.T) {
			t.Parallel()
			want := hud.Vec2{X: tc.x, Y: tc.y}
			a := hud.ResolveAnchor(tc.name)
			assert.Equal(t, want, a.Min)
			assert.Equal(t, want, a.Max)
			assert.Equal(t, want, a.Pivot)
		})
	}
}

func TestResolveAnchor_DefaultsToTopLeft_When_NameUnknown(t *testing.T) {
	t.Parallel()

	topLeft := hud.ResolveAnchor(manifest.AnchorTopLeft)
	for _, name := range []string{"", "middle", "top-left", "  center"} {
		assert.Equal(t, topLeft, hud.ResolveAnchor(name), name)
	}
}

func TestLayoutFromDef_UsesPositionSizeAndAnchor(t *testing.T) {
	t.Parallel()

	l := hud.LayoutFromDef(manifest.HudElementDef{
		Position: &manifest.PositionDef{X: 10, Y: 20, Anchor: "center"},
		Size:     &manifest.SizeDef{Width: 200, Height: 30},
	})
	assert.Equal(t, hud.Vec2{X: 10, Y: 20}, l.Position)
	assert.Equal(t, hud.Vec2{X: 200, Y: 30}, l.Size)
	assert.Equal(t, hud.ResolveAnchor("center"), l.Anchor)

	empty := hud.LayoutFromDef(manifest.HudElementDef{})
	assert.Equal(t, hud.ResolveAnchor(""), empty.Anchor)
	assert.Zero(t, empty.Position)
}
