package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const noStyle = -1

type cell struct {
	ch    string
	style int
	cont  bool // right half of a wide rune
}

// grid is a fixed-size cell buffer. Styles are interned per frame and cells
// refer to them by index so runs can be grouped on output.
type grid struct {
	cols, rows int
	cells      [][]cell
	styles     []lipgloss.Style
}

func newGrid(cols, rows int) *grid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	g := &grid{cols: cols, rows: rows, cells: make([][]cell, rows)}
	for r := range g.cells {
		row := make([]cell, cols)
		for c := range row {
			row[c] = cell{ch: " ", style: noStyle}
		}
		g.cells[r] = row
	}
	return g
}

func (g *grid) style(s lipgloss.Style) int {
	g.styles = append(g.styles, s)
	return len(g.styles) - 1
}

func (g *grid) set(col, row int, ch string, style int) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	if g.cells[row][col].cont && col > 0 {
		g.cells[row][col-1] = cell{ch: " ", style: g.cells[row][col-1].style}
	}
	if col+1 < g.cols && g.cells[row][col+1].cont {
		g.cells[row][col+1] = cell{ch: " ", style: g.cells[row][col+1].style}
	}
	g.cells[row][col] = cell{ch: ch, style: style}
}

// text writes s from (col,row) using at most maxW cells and returns how many
// cells it used. Wide runes that do not fit are dropped.
func (g *grid) text(col, row int, s string, style, maxW int) int {
	if row < 0 || row >= g.rows {
		return 0
	}
	used := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if used+w > maxW || col+used+w > g.cols {
			break
		}
		g.set(col+used, row, string(r), style)
		if w == 2 {
			g.set(col+used+1, row, "", style)
			g.cells[row][col+used+1].cont = true
		}
		used += w
	}
	return used
}

func (g *grid) fill(r Rect, ch string, style int) {
	for row := r.Row; row < r.Row+r.H; row++ {
		for col := r.Col; col < r.Col+r.W; col++ {
			g.set(col, row, ch, style)
		}
	}
}

// String renders the grid, styling each run of equally styled cells once.
func (g *grid) String() string {
	lines := make([]string, g.rows)
	for r, row := range g.cells {
		var b, run strings.Builder
		current := noStyle
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if current == noStyle {
				b.WriteString(run.String())
			} else {
				b.WriteString(g.styles[current].Render(run.String()))
			}
			run.Reset()
		}
		for _, c := range row {
			if c.cont {
				continue
			}
			if c.style != current {
				flush()
				current = c.style
			}
			run.WriteString(c.ch)
		}
		flush()
		lines[r] = b.String()
	}
	return strings.Join(lines, "\n")
}

// Plain renders the grid without styles, trailing spaces trimmed.
func (g *grid) Plain() string {
	lines := make([]string, g.rows)
	for r, row := range g.cells {
		var b strings.Builder
		for _, c := range row {
			if !c.cont {
				b.WriteString(c.ch)
			}
		}
		lines[r] = strings.TrimRight(b.String(), " ")
	}
	return strings.Join(lines, "\n")
}
