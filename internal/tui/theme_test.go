package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DiNaSoR/Veil/internal/config"
)

func TestThemeByName_FallsBack_When_Unknown(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ember", ThemeByName("EMBER").Name)
	assert.Equal(t, "veil", ThemeByName("nope").Name)
	assert.Equal(t, []string{"ember", "mono", "veil"}, ThemeNames())
}

func TestTheme_WithPalette_OverridesOnlySetColors(t *testing.T) {
	t.Parallel()
	base := VeilTheme()
	got := base.WithPalette(&config.Palette{Accent: "#112233", Fill: "#445566"})

	assert.Equal(t, "#112233", got.Colors.Accent)
	assert.Equal(t, "#445566", got.Colors.Fill)
	assert.Equal(t, base.Colors.Text, got.Colors.Text)
	assert.Equal(t, "#C0392B", base.Colors.Accent, "base theme untouched")
	assert.Equal(t, base.Colors, base.WithPalette(nil).Colors)
}

func TestResolveTheme_UsesMono_When_NoColor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		cfg     *config.ResolvedConfig
		want    string
		noColor bool
	}{
		{name: "success: nil config is the default", cfg: nil, want: "veil"},
		{name: "success: named theme", cfg: &config.ResolvedConfig{Theme: "ember"}, want: "ember"},
		{name: "success: no color wins over theme", cfg: &config.ResolvedConfig{Theme: "ember", NoColor: true}, want: "mono", noColor: true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ct := ResolveTheme(tc.cfg)
			assert.Equal(t, tc.want, ct.Name)
			assert.Equal(t, tc.noColor, ct.NoColor)
		})
	}
}

func TestCompiledTheme_ToastStyle_DefaultsToInfo(t *testing.T) {
	t.Parallel()
	ct := VeilTheme().Compile()
	assert.Len(t, ct.Toasts, 4)
	assert.Equal(t, ct.Toasts["info"].GetForeground(), ct.ToastStyle("mystery").GetForeground())
	assert.Equal(t, ct.Toasts["warning"].GetForeground(), ct.ToastStyle("Warning").GetForeground())
}
