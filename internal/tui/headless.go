package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/DiNaSoR/Veil/veil"
)

// Headless drives a runtime without a terminal UI: one goroutine
// multiplexes frame ticks and host lines, toasts scroll as plain lines, and
// a footer of component values is redrawn in place when out is a terminal.
type Headless struct {
	rt     *veil.Runtime
	canvas *Canvas
	toasts *ToastQueue
	out    *termWriter
	frame  time.Duration
	footer bool

	lastFooter []string
}

// HeadlessOptions configures NewHeadless.
type HeadlessOptions struct {
	Runtime *veil.Runtime
	Canvas  *Canvas
	Toasts  *ToastQueue
	Out     io.Writer
	Frame   time.Duration
	// Footer redraws component values in place. Only use it on a terminal.
	Footer bool
	Width  int
	Height int
}

// NewHeadless builds a headless driver.
func NewHeadless(opts HeadlessOptions) *Headless {
	if opts.Toasts == nil {
		opts.Toasts = NewToastQueue()
	}
	if opts.Frame <= 0 {
		opts.Frame = DefaultFrame
	}
	return &Headless{
		rt:     opts.Runtime,
		canvas: opts.Canvas,
		toasts: opts.Toasts,
		out:    newTermWriter(opts.Out, opts.Width, opts.Height),
		frame:  opts.Frame,
		footer: opts.Footer,
	}
}

// Run loops until ctx ends or lines closes. It returns nil when the host
// closes the connection.
func (h *Headless) Run(ctx context.Context, lines <-chan string) error {
	ticker := time.NewTicker(h.frame)
	defer ticker.Stop()
	last := time.Now()
	defer h.out.EraseFooter()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			h.rt.Tick(now.Sub(last))
			last = now
			h.flush()
		case line, ok := <-lines:
			if !ok {
				h.flush()
				return nil
			}
			h.rt.HandleLine(line)
			h.flush()
		}
	}
}

// flush prints new toasts above the footer and redraws it if it changed.
func (h *Headless) flush() {
	toasts := h.toasts.Drain()
	values := h.canvas.Summary()
	changed := !equalLines(values, h.lastFooter)
	if len(toasts) == 0 && !changed {
		return
	}
	if h.footer {
		h.out.EraseFooter()
	}
	for _, t := range toasts {
		h.out.PrintLine(fmt.Sprintf("[%s] %s: %s", t.AdapterID, strings.ToUpper(styleOr(t.Style)), t.Text))
	}
	if h.footer {
		h.out.DrawFooter(values)
	} else if changed {
		for _, v := range values {
			h.out.PrintLine(v)
		}
	}
	h.lastFooter = values
}

func styleOr(style string) string {
	if style == "" {
		return "info"
	}
	return style
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// termWriter is the single point of terminal output in headless mode.
type termWriter struct {
	out         io.Writer
	width       int
	height      int
	footerLines int
}

func newTermWriter(out io.Writer, width, height int) *termWriter {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	return &termWriter{out: out, width: width, height: height}
}

// PrintLine writes a line to the scrolling history region.
func (w *termWriter) PrintLine(s string) {
	fmt.Fprintln(w.out, runewidth.Truncate(s, w.width, "..."))
}

// EraseFooter removes the current footer from the terminal.
func (w *termWriter) EraseFooter() {
	if w.footerLines == 0 {
		return
	}
	for i := 0; i < w.footerLines; i++ {
		fmt.Fprint(w.out, "\033[1A\r\033[2K")
	}
	w.footerLines = 0
}

// DrawFooter prints footer lines truncated to the terminal width, capped at
// a third of its height.
func (w *termWriter) DrawFooter(lines []string) {
	maxLines := max(w.height/3, 3)
	printLines := lines
	capped := len(lines) > maxLines
	if capped {
		printLines = lines[:maxLines-1]
	}
	for _, line := range printLines {
		fmt.Fprintln(w.out, runewidth.Truncate(line, w.width, "..."))
	}
	printed := len(printLines)
	if capped {
		fmt.Fprintln(w.out, runewidth.Truncate(fmt.Sprintf("  ... and %d more", len(lines)-len(printLines)), w.width, "..."))
		printed++
	}
	w.footerLines = printed
}
