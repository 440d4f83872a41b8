package hud

import (
	"golang.org/x/text/cases"

	"github.com/DiNaSoR/Veil/pkg/manifest"
)

// Vec2 is a 2D point or extent in reference pixels.
type Vec2 struct {
	X float64 `json:"X"`
	Y float64 `json:"Y"`
}

// Anchor is a normalized anchor/pivot triple. Coordinates run from (0,0) at
// the bottom-left of the surface to (1,1) at the top-right.
type Anchor struct {
	Min   Vec2
	Max   Vec2
	Pivot Vec2
}

func pointAnchor(x, y float64) Anchor {
	p := Vec2{X: x, Y: y}
	return Anchor{Min: p, Max: p, Pivot: p}
}

var anchors = map[string]Anchor{
	fold(manifest.AnchorTopLeft):     pointAnchor(0, 1),
	fold(manifest.AnchorTopRight):    pointAnchor(1, 1),
	fold(manifest.AnchorBottomLeft):  pointAnchor(0, 0),
	fold(manifest.AnchorBottomRight): pointAnchor(1, 0),
	fold(manifest.AnchorCenter):      pointAnchor(0.5, 0.5),
}

// ResolveAnchor maps an anchor name, case-insensitively, to its fixed
// anchor/pivot triple. Unknown or empty names resolve to topLeft.
func ResolveAnchor(name string) Anchor {
	if a, ok := anchors[fold(name)]; ok {
		return a
	}
	return anchors[fold(manifest.AnchorTopLeft)]
}

// Layout is where a node sits. Position is the offset of the node's pivot
// from its anchor point, with y growing downward as in manifests.
type Layout struct {
	Position Vec2
	Size     Vec2
	Anchor   Anchor
}

// LayoutFromDef builds the manifest-declared layout of an element.
func LayoutFromDef(def manifest.HudElementDef) Layout {
	l := Layout{Anchor: ResolveAnchor("")}
	if p := def.Position; p != nil {
		l.Position = Vec2{X: p.X, Y: p.Y}
		l.Anchor = ResolveAnchor(p.Anchor)
	}
	if s := def.Size; s != nil {
		l.Size = Vec2{X: s.Width, Y: s.Height}
	}
	return l
}

func fold(s string) string {
	return cases.Fold().String(s)
}
