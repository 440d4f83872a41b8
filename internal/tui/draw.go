package tui

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/DiNaSoR/Veil/pkg/hud"
	"github.com/DiNaSoR/Veil/pkg/hud/widget"
	"github.com/DiNaSoR/Veil/pkg/manifest"
	"github.com/DiNaSoR/Veil/pkg/menu"
	"github.com/DiNaSoR/Veil/pkg/notify"
)

func drawNode(g *grid, theme *CompiledTheme, v hud.Visual, r Rect) {
	switch v.Kind {
	case widget.KindProgressBar:
		drawBar(g, theme, v, r)
	case widget.KindButton:
		st := g.style(override(theme, theme.Button, v.Style))
		label := runewidth.Truncate(prefixIcon(v.Icon, v.Label), max(r.W-4, 0), "…")
		g.text(r.Col, r.Row, "[ "+label+" ]", st, r.W)
	case widget.KindPanel:
		drawPanel(g, theme, v, r)
	default:
		text := v.Text
		if text == "" {
			text = v.Label
		}
		st := g.style(override(theme, theme.Label, v.Style))
		g.text(r.Col, r.Row, runewidth.Truncate(prefixIcon(v.Icon, text), r.W, "…"), st, r.W)
	}
}

// drawBar renders "<label> <bar> <pct>" on the first row of r.
func drawBar(g *grid, theme *CompiledTheme, v hud.Visual, r Rect) {
	label := prefixIcon(v.Icon, v.Label)
	pct := v.Text
	barW := r.W - percentCells - 1
	if label != "" {
		barW -= textWidth(label) + 1
	}
	if barW < minBarCells {
		label = runewidth.Truncate(label, max(r.W-percentCells-minBarCells-2, 0), "…")
		barW = minBarCells
	}

	col := r.Col
	if label != "" {
		col += g.text(col, r.Row, label, g.style(override(theme, theme.Label, v.Style)), r.W)
		col++
	}
	progress := math.Max(0, math.Min(1, v.Progress))
	filled := int(math.Round(progress * float64(barW)))
	fill := g.style(theme.BarFill)
	track := g.style(theme.BarTrack)
	for i := 0; i < barW; i++ {
		if i < filled {
			g.set(col+i, r.Row, theme.Glyphs.BarFill, fill)
		} else {
			g.set(col+i, r.Row, theme.Glyphs.BarTrack, track)
		}
	}
	col += barW + 1
	g.text(col, r.Row, pct, g.style(theme.Value), r.Col+r.W-col)
}

func drawPanel(g *grid, theme *CompiledTheme, v hud.Visual, r Rect) {
	border := theme.Panel
	if !theme.NoColor && v.Style.BackgroundColor != "" {
		g.fill(Rect{Col: r.Col + 1, Row: r.Row + 1, W: r.W - 2, H: r.H - 2}, " ",
			g.style(lipgloss.NewStyle().Background(lipgloss.Color(v.Style.BackgroundColor))))
	}
	if !theme.NoColor && v.Style.BorderColor != "" {
		border = border.Foreground(lipgloss.Color(v.Style.BorderColor))
	}
	if r.W < 2 || r.H < 2 {
		return
	}
	drawBox(g, r, g.style(border))
	if v.Label != "" && r.W > 4 {
		title := " " + runewidth.Truncate(v.Label, r.W-4, "…") + " "
		g.text(r.Col+1, r.Row, title, g.style(theme.PanelTitle), r.W-2)
	}
}

// drawBox outlines r with a rounded border.
func drawBox(g *grid, r Rect, st int) {
	if r.W < 2 || r.H < 2 {
		return
	}
	b := lipgloss.RoundedBorder()
	right, bottom := r.Col+r.W-1, r.Row+r.H-1
	g.set(r.Col, r.Row, b.TopLeft, st)
	g.set(right, r.Row, b.TopRight, st)
	g.set(r.Col, bottom, b.BottomLeft, st)
	g.set(right, bottom, b.BottomRight, st)
	for col := r.Col + 1; col < right; col++ {
		g.set(col, r.Row, b.Top, st)
		g.set(col, bottom, b.Bottom, st)
	}
	for row := r.Row + 1; row < bottom; row++ {
		g.set(r.Col, row, b.Left, st)
		g.set(right, row, b.Right, st)
	}
}

// drawMenu paints the open menu centered on the grid: title, tab strip,
// actions, then the selected tab's data.
func drawMenu(g *grid, theme *CompiledTheme, m *menu.Menu) {
	type segment struct {
		text  string
		style lipgloss.Style
	}
	var lines [][]segment
	lines = append(lines, []segment{{m.Title(), theme.MenuTitle}})

	tabs := m.Definition().Tabs
	if len(tabs) > 0 {
		var strip []segment
		for i, tab := range tabs {
			if i > 0 {
				strip = append(strip, segment{" | ", theme.TabInactive})
			}
			label := tab.Label
			if label == "" {
				label = tab.ID
			}
			st := theme.TabInactive
			if i == m.TabIndex() {
				st = theme.TabActive
			}
			strip = append(strip, segment{label, st})
		}
		lines = append(lines, strip, nil)
	}
	for i, a := range m.Actions() {
		if i == m.ActionIndex() {
			lines = append(lines, []segment{{theme.Glyphs.Select + " " + a.Label, theme.ActionSel}})
		} else {
			lines = append(lines, []segment{{"  " + a.Label, theme.Action}})
		}
	}
	if data := m.Data(); len(data) > 0 {
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, []segment{{k + ": ", theme.Value}, {data[k], theme.Label}})
		}
	}

	inner := 0
	for _, line := range lines {
		w := 0
		for _, seg := range line {
			w += textWidth(seg.text)
		}
		inner = max(inner, w)
	}
	w := min(inner+4, g.cols)
	h := min(len(lines)+2, g.rows)
	r := Rect{Col: max((g.cols-w)/2, 0), Row: max((g.rows-h)/2, 0), W: w, H: h}
	g.fill(r, " ", noStyle)
	drawBox(g, r, g.style(theme.MenuTitle))
	for i, line := range lines {
		row := r.Row + 1 + i
		if row >= r.Row+r.H-1 {
			break
		}
		col := r.Col + 2
		for _, seg := range line {
			col += g.text(col, row, seg.text, g.style(seg.style), r.Col+r.W-2-col)
		}
	}
}

// drawToasts stacks toasts in the top-right corner, newest at the bottom.
func drawToasts(g *grid, theme *CompiledTheme, toasts []notify.Toast) {
	for i, t := range toasts {
		if i >= g.rows {
			return
		}
		text := runewidth.Truncate(theme.Glyphs.Toast+" "+t.Text, max(g.cols-2, 0), "…")
		col := max(g.cols-textWidth(text)-1, 0)
		g.text(col, i, text, g.style(theme.ToastStyle(t.Style)), g.cols-col)
	}
}

// override applies manifest colors on top of a theme style.
func override(theme *CompiledTheme, base lipgloss.Style, s manifest.StyleDef) lipgloss.Style {
	if theme.NoColor {
		return base
	}
	if s.ForegroundColor != "" {
		base = base.Foreground(lipgloss.Color(s.ForegroundColor))
	}
	if s.BackgroundColor != "" {
		base = base.Background(lipgloss.Color(s.BackgroundColor))
	}
	return base
}

// padLines pads or truncates s to exactly n lines.
func padLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	for len(lines) < n {
		lines = append(lines, "")
	}
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
