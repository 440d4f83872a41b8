// Package tui renders the HUD in a terminal. A bubbletea program is the tick
// thread: frame ticks drive Runtime.Tick and host lines arrive as messages,
// so every runtime call happens on the program goroutine.
package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DiNaSoR/Veil/pkg/clock"
	"github.com/DiNaSoR/Veil/veil"
)

// DefaultFrame is the tick interval when none is configured.
const DefaultFrame = 100 * time.Millisecond

// Options configures a Model. Runtime and Canvas are required; the runtime
// must have been built with Canvas as its surface and Toasts as its sink.
type Options struct {
	Runtime *veil.Runtime
	Canvas  *Canvas
	Toasts  *ToastQueue
	Theme   *CompiledTheme
	Lines   <-chan string
	Frame   time.Duration
	Clock   clock.Clock
	Logger  *slog.Logger
}

type overlay int

const (
	overlayNone overlay = iota
	overlayStatus
	overlayLog
)

type (
	tickMsg       time.Time
	lineMsg       string
	hostClosedMsg struct{}
)

// Model is the bubbletea model for the HUD.
type Model struct {
	rt     *veil.Runtime
	canvas *Canvas
	toasts *ToastQueue
	theme  *CompiledTheme
	lines  <-chan string
	frame  time.Duration
	clock  clock.Clock
	logger *slog.Logger

	keys     keyMap
	menuKeys []menuKey
	help     help.Model
	viewport viewport.Model
	overlay  overlay

	width, height int
	lastTick      time.Time
	hostGone      bool
}

// New builds the model. Menus must already be loaded for their hotkeys to
// bind, so call Runtime.Init first.
func New(opts Options) Model {
	if opts.Toasts == nil {
		opts.Toasts = NewToastQueue()
	}
	if opts.Theme == nil {
		opts.Theme = VeilTheme().Compile()
	}
	if opts.Frame <= 0 {
		opts.Frame = DefaultFrame
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	keys := defaultKeyMap()
	h := help.New()
	h.Styles.ShortKey = opts.Theme.StatusBar.Bold(true)
	h.Styles.ShortDesc = opts.Theme.StatusBar
	h.Styles.FullKey = opts.Theme.StatusBar.Bold(true)
	h.Styles.FullDesc = opts.Theme.StatusBar
	return Model{
		rt:       opts.Runtime,
		canvas:   opts.Canvas,
		toasts:   opts.Toasts,
		theme:    opts.Theme,
		lines:    opts.Lines,
		frame:    opts.Frame,
		clock:    opts.Clock,
		logger:   opts.Logger,
		keys:     keys,
		menuKeys: menuKeys(opts.Runtime.Menus(), keys),
		help:     h,
		viewport: viewport.New(0, 0),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitLine(), m.tick())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) waitLine() tea.Cmd {
	if m.lines == nil {
		return nil
	}
	lines := m.lines
	return func() tea.Msg {
		line, ok := <-lines
		if !ok {
			return hostClosedMsg{}
		}
		return lineMsg(line)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.canvas.Resize(msg.Width, m.bodyHeight())
		m.help.Width = msg.Width
		m.viewport.Width = max(msg.Width-4, 1)
		m.viewport.Height = max(m.bodyHeight()-3, 1)
		m.refreshOverlay()
	case tickMsg:
		now := time.Time(msg)
		dt := m.frame
		if !m.lastTick.IsZero() {
			dt = now.Sub(m.lastTick)
		}
		m.lastTick = now
		m.rt.Tick(dt)
		if m.overlay == overlayStatus {
			m.refreshOverlay()
		}
		return m, m.tick()
	case lineMsg:
		m.rt.HandleLine(string(msg))
		if m.overlay == overlayLog {
			m.refreshOverlay()
		}
		return m, m.waitLine()
	case hostClosedMsg:
		m.hostGone = true
		m.logger.Warn("host connection closed")
		return m, nil
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.overlay != overlayNone {
		switch {
		case key.Matches(msg, m.keys.Close):
			m.overlay = overlayNone
		case key.Matches(msg, m.keys.Status):
			m.toggleOverlay(overlayStatus)
		case key.Matches(msg, m.keys.Log):
			m.toggleOverlay(overlayLog)
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if open, ok := m.rt.Menus().Active(); ok {
		switch {
		case key.Matches(msg, m.keys.Close):
			open.Close()
			return m, nil
		case key.Matches(msg, m.keys.NextTab):
			open.NextTab()
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			open.PrevTab()
			return m, nil
		case key.Matches(msg, m.keys.Up):
			open.PrevAction()
			return m, nil
		case key.Matches(msg, m.keys.Down):
			open.NextAction()
			return m, nil
		case key.Matches(msg, m.keys.Activate):
			open.Activate()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.rt.Toggle()
	case key.Matches(msg, m.keys.Status):
		m.toggleOverlay(overlayStatus)
	case key.Matches(msg, m.keys.Log):
		m.toggleOverlay(overlayLog)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.canvas.Resize(m.width, m.bodyHeight())
	default:
		for _, mk := range m.menuKeys {
			if key.Matches(msg, mk.binding) {
				m.rt.Menus().Toggle(mk.id)
				break
			}
		}
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.overlay != overlayNone {
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.canvas.Press(msg.X, msg.Y)
		}
	case tea.MouseActionMotion:
		m.canvas.Motion(msg.X, msg.Y)
	case tea.MouseActionRelease:
		m.canvas.Release(msg.X, msg.Y)
	}
}

func (m *Model) toggleOverlay(o overlay) {
	if m.overlay == o {
		m.overlay = overlayNone
		return
	}
	m.overlay = o
	m.refreshOverlay()
}

func (m *Model) refreshOverlay() {
	switch m.overlay {
	case overlayStatus:
		m.viewport.SetContent(m.rt.Status().String())
	case overlayLog:
		lines := m.rt.RecentLines()
		if len(lines) == 0 {
			m.viewport.SetContent("No messages yet")
			return
		}
		m.viewport.SetContent(strings.Join(lines, "\n"))
		m.viewport.GotoBottom()
	}
}

func (m Model) footerHeight() int {
	if m.help.ShowAll {
		return 4
	}
	return 1
}

func (m Model) bodyHeight() int {
	return max(m.height-m.footerHeight(), 1)
}

func (m Model) View() string {
	if m.width == 0 {
		return "Starting veil..."
	}

	var body string
	switch m.overlay {
	case overlayStatus, overlayLog:
		title := "Status"
		if m.overlay == overlayLog {
			title = "Messages"
		}
		box := m.theme.OverlayBox.Width(max(m.width-2, 1)).
			Render(m.theme.MenuTitle.Render(title) + "\n" + m.viewport.View())
		body = padLines(box, m.bodyHeight())
	default:
		g := m.canvas.paint(m.theme)
		if open, ok := m.rt.Menus().Active(); ok {
			drawMenu(g, m.theme, open)
		}
		drawToasts(g, m.theme, m.toasts.Visible(m.clock.Now()))
		body = g.String()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.footer())
}

func (m Model) footer() string {
	var notes []string
	if !m.rt.Visible() {
		notes = append(notes, "hud hidden")
	}
	if m.hostGone {
		notes = append(notes, "host disconnected")
	}
	out := m.help.View(m.keys)
	if len(notes) > 0 {
		out += m.theme.StatusBar.Render(" • " + strings.Join(notes, " • "))
	}
	return out
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) error {
	all := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}, opts...)
	_, err := tea.NewProgram(m, all...).Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
