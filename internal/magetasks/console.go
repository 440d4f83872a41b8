package magetasks

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const headerWidth = 80

// Printer writes task progress. Styles are dropped when the writer is not a
// terminal.
type Printer struct {
	w       io.Writer
	title   lipgloss.Style
	section lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	muted   lipgloss.Style
}

// Out is the printer tasks report on.
var Out = NewPrinter(os.Stdout)

// NewPrinter returns a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#C0392B")),
		section: r.NewStyle().Bold(true),
		ok:      r.NewStyle().Foreground(lipgloss.Color("#04B575")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#FFBD2E")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("#FF5F56")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#7F7F7F")),
	}
}

// Title prints a centered top-level header between rules.
func (p *Printer) Title(title string) {
	rule := strings.Repeat("=", headerWidth)
	pad := (headerWidth - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintf(p.w, "\n%s\n%s%s\n%s\n\n", rule, strings.Repeat(" ", pad), p.title.Render(title), rule)
}

// Section prints a section header.
func (p *Printer) Section(title string) {
	fmt.Fprintf(p.w, "\n%s\n\n", p.section.Render("=== "+title+" ==="))
}

// Step prints the command line about to run.
func (p *Printer) Step(name string, args ...string) {
	fmt.Fprintln(p.w, p.muted.Render("$ "+strings.Join(append([]string{name}, args...), " ")))
}

// Success prints a check-marked line.
func (p *Printer) Success(msg string) { fmt.Fprintln(p.w, p.ok.Render("\u2713 "+msg)) }

// Warning prints a warning line.
func (p *Printer) Warning(msg string) { fmt.Fprintln(p.w, p.warn.Render("\u26a0 "+msg)) }

// Error prints a failure line.
func (p *Printer) Error(msg string) { fmt.Fprintln(p.w, p.fail.Render("\u2717 "+msg)) }
