package tui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"

	"github.com/DiNaSoR/Veil/internal/config"
)

// ThemeColors is the palette a HUD theme is built from.
type ThemeColors struct {
	Accent  string `yaml:"accent"`  // titles, active tab, selection
	Text    string `yaml:"text"`    // labels and values
	Muted   string `yaml:"muted"`   // help, hints, inactive tabs
	Border  string `yaml:"border"`  // panel and menu borders
	Fill    string `yaml:"fill"`    // progress bar fill
	Track   string `yaml:"track"`   // progress bar remainder
	Success string `yaml:"success"` // success toasts
	Warning string `yaml:"warning"` // warning toasts
	Error   string `yaml:"error"`   // error toasts
}

// ThemeGlyphs are the characters used to draw widgets.
type ThemeGlyphs struct {
	BarFill  string `yaml:"bar_fill"`
	BarTrack string `yaml:"bar_track"`
	Select   string `yaml:"select"`
	Toast    string `yaml:"toast"`
}

// Theme holds all visual styling for the HUD.
type Theme struct {
	Name   string      `yaml:"name"`
	Colors ThemeColors `yaml:"colors"`
	Glyphs ThemeGlyphs `yaml:"glyphs"`
}

// CompiledTheme holds pre-built lipgloss styles from a Theme.
type CompiledTheme struct {
	Name    string
	// NoColor is set when the palette is empty; manifest colors are ignored.
	NoColor bool

	Label       lipgloss.Style
	Value       lipgloss.Style
	BarFill     lipgloss.Style
	BarTrack    lipgloss.Style
	Button      lipgloss.Style
	Panel       lipgloss.Style
	PanelTitle  lipgloss.Style
	MenuTitle   lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Action      lipgloss.Style
	ActionSel   lipgloss.Style
	StatusBar   lipgloss.Style
	OverlayBox  lipgloss.Style
	Toasts      map[string]lipgloss.Style

	Glyphs ThemeGlyphs
}

var builtinThemes = map[string]func() *Theme{
	"veil":  VeilTheme,
	"ember": EmberTheme,
	"mono":  MonoTheme,
}

// ThemeNames lists the built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme, matched case-insensitively. Unknown
// names fall back to the veil theme.
func ThemeByName(name string) *Theme {
	if f, ok := builtinThemes[cases.Fold().String(name)]; ok {
		return f()
	}
	return VeilTheme()
}

// VeilTheme is the default crimson-on-dark theme.
func VeilTheme() *Theme {
	return &Theme{
		Name: "veil",
		Colors: ThemeColors{
			Accent:  "#C0392B", // crimson
			Text:    "#E6E6E6", // light gray
			Muted:   "#7F7F7F", // gray
			Border:  "#5A1E1E", // dried blood
			Fill:    "#E74C3C", // red
			Track:   "#3A3A3A", // dark gray
			Success: "#04B575", // green
			Warning: "#FFBD2E", // amber
			Error:   "#FF5F56", // red
		},
		Glyphs: defaultGlyphs(),
	}
}

// EmberTheme is a warm orange variant.
func EmberTheme() *Theme {
	return &Theme{
		Name: "ember",
		Colors: ThemeColors{
			Accent:  "#E67E22",
			Text:    "#F5E6CC",
			Muted:   "#8C7B6B",
			Border:  "#6E3B12",
			Fill:    "#F39C12",
			Track:   "#3B2F25",
			Success: "#7DCE82",
			Warning: "#F1C40F",
			Error:   "#E74C3C",
		},
		Glyphs: defaultGlyphs(),
	}
}

// MonoTheme has no colors. It is used when color output is disabled.
func MonoTheme() *Theme {
	return &Theme{
		Name:   "mono",
		Glyphs: ThemeGlyphs{BarFill: "#", BarTrack: "-", Select: ">", Toast: "*"},
	}
}

func defaultGlyphs() ThemeGlyphs {
	return ThemeGlyphs{
		BarFill:  "\u2588", // █
		BarTrack: "\u2591", // ░
		Select:   "\u25b6", // ▶
		Toast:    "\u25c6", // ◆
	}
}

// WithPalette returns a copy of t with the non-empty palette fields applied.
func (t *Theme) WithPalette(p *config.Palette) *Theme {
	out := *t
	if p == nil {
		return &out
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&out.Colors.Accent, p.Accent)
	set(&out.Colors.Text, p.Text)
	set(&out.Colors.Muted, p.Muted)
	set(&out.Colors.Border, p.Border)
	set(&out.Colors.Fill, p.Fill)
	set(&out.Colors.Track, p.Track)
	set(&out.Colors.Success, p.Success)
	set(&out.Colors.Warning, p.Warning)
	set(&out.Colors.Error, p.Error)
	return &out
}

// Compile builds lipgloss styles from the theme configuration. An empty
// color leaves the terminal default.
func (t *Theme) Compile() *CompiledTheme {
	c := t.Colors
	ct := &CompiledTheme{Name: t.Name, Glyphs: t.Glyphs, NoColor: c == ThemeColors{}}

	ct.Label = lipgloss.NewStyle().Bold(true).Foreground(color(c.Text))
	ct.Value = lipgloss.NewStyle().Foreground(color(c.Muted))
	ct.BarFill = lipgloss.NewStyle().Foreground(color(c.Fill))
	ct.BarTrack = lipgloss.NewStyle().Foreground(color(c.Track))
	ct.Button = lipgloss.NewStyle().Bold(true).Foreground(color(c.Accent))
	ct.Panel = lipgloss.NewStyle().Foreground(color(c.Border))
	ct.PanelTitle = lipgloss.NewStyle().Bold(true).Foreground(color(c.Accent))

	ct.MenuTitle = lipgloss.NewStyle().Bold(true).Foreground(color(c.Accent))
	ct.TabActive = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(color(c.Accent))
	ct.TabInactive = lipgloss.NewStyle().Foreground(color(c.Muted))
	ct.Action = lipgloss.NewStyle().Foreground(color(c.Text))
	ct.ActionSel = lipgloss.NewStyle().Bold(true).Foreground(color(c.Accent))

	ct.StatusBar = lipgloss.NewStyle().Foreground(color(c.Muted))
	ct.OverlayBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color(c.Border)).
		Padding(0, 1)

	toast := func(fg string) lipgloss.Style {
		return lipgloss.NewStyle().Bold(true).Foreground(color(fg))
	}
	ct.Toasts = map[string]lipgloss.Style{
		"info":    toast(c.Text),
		"success": toast(c.Success),
		"warning": toast(c.Warning),
		"error":   toast(c.Error),
	}

	if ct.Glyphs.BarFill == "" {
		ct.Glyphs.BarFill = "#"
	}
	if ct.Glyphs.BarTrack == "" {
		ct.Glyphs.BarTrack = "-"
	}
	if ct.Glyphs.Select == "" {
		ct.Glyphs.Select = ">"
	}
	if ct.Glyphs.Toast == "" {
		ct.Glyphs.Toast = "*"
	}
	return ct
}

// ToastStyle returns the style for a notification style name, defaulting
// to info.
func (ct *CompiledTheme) ToastStyle(style string) lipgloss.Style {
	if s, ok := ct.Toasts[cases.Fold().String(style)]; ok {
		return s
	}
	return ct.Toasts["info"]
}

func color(hex string) lipgloss.TerminalColor {
	if hex == "" {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ResolveTheme picks the theme for a resolved configuration.
func ResolveTheme(cfg *config.ResolvedConfig) *CompiledTheme {
	if cfg == nil {
		return VeilTheme().Compile()
	}
	if cfg.NoColor {
		return MonoTheme().Compile()
	}
	return ThemeByName(cfg.Theme).WithPalette(cfg.Palette).Compile()
}
