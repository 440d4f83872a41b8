package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func boolPtr(b bool) *bool { return &b }

func TestResolve_PriorityOrder(t *testing.T) {
	t.Parallel()
	file := &AppConfig{
		AdaptersDir: "file-adapters",
		Theme:       "file-theme",
		NoColor:     boolPtr(false),
		Transport:   TransportConfig{Kind: TransportProcess, Command: "host --relay"},
	}

	tests := []struct {
		name              string
		flags             CliFlags
		env               map[string]string
		app               *AppConfig
		wantAdapters      string
		wantAdaptersSrc   string
		wantTheme         string
		wantThemeSrc      string
		wantNoColor       bool
		wantNoColorSource string
	}{
		{
			name:              "success: CLI beats env and file",
			flags:             CliFlags{AdaptersDir: "cli-adapters", ThemeName: "cli-theme", NoColor: true, NoColorSet: true},
			env:               map[string]string{"VEIL_ADAPTERS_DIR": "env-adapters", "VEIL_NO_COLOR": "false"},
			app:               file,
			wantAdapters:      "cli-adapters",
			wantAdaptersSrc:   SourceCLI,
			wantTheme:         "cli-theme",
			wantThemeSrc:      SourceCLI,
			wantNoColor:       true,
			wantNoColorSource: SourceCLI,
		},
		{
			name:              "success: env beats file",
			env:               map[string]string{"VEIL_ADAPTERS_DIR": "env-adapters", "VEIL_THEME": "env-theme", "NO_COLOR": "1"},
			app:               file,
			wantAdapters:      "env-adapters",
			wantAdaptersSrc:   SourceEnv,
			wantTheme:         "env-theme",
			wantThemeSrc:      SourceEnv,
			wantNoColor:       true,
			wantNoColorSource: SourceEnv,
		},
		{
			name:              "success: file beats defaults",
			app:               file,
			env:               map[string]string{"NO_COLOR": "not-a-bool"},
			wantAdapters:      "file-adapters",
			wantAdaptersSrc:   SourceFile,
			wantTheme:         "file-theme",
			wantThemeSrc:      SourceFile,
			wantNoColorSource: SourceFile,
		},
		{
			name:              "success: defaults",
			wantAdapters:      DefaultAdaptersDir,
			wantAdaptersSrc:   SourceDefault,
			wantTheme:         DefaultTheme,
			wantThemeSrc:      SourceDefault,
			wantNoColorSource: SourceDefault,
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r, err := Resolve(tc.app, tc.flags, envMap(tc.env))
			require.NoError(t, err)
			assert.Equal(t, tc.wantAdapters, r.AdaptersDir)
			assert.Equal(t, tc.wantAdaptersSrc, r.AdaptersDirSource)
			assert.Equal(t, tc.wantTheme, r.Theme)
			assert.Equal(t, tc.wantThemeSrc, r.ThemeSource)
			assert.Equal(t, tc.wantNoColor, r.NoColor)
			assert.Equal(t, tc.wantNoColorSource, r.NoColorSource)
		})
	}
}

func TestResolve_AppliesDefaults(t *testing.T) {
	t.Parallel()
	r, err := Resolve(nil, CliFlags{}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultLayoutBackend, r.LayoutBackend)
	assert.Equal(t, TransportStdio, r.Transport.Kind)
	assert.Equal(t, DefaultCommandTimeout, r.CommandTimeout)
	assert.Equal(t, DefaultFrameInterval, r.FrameInterval)
	assert.False(t, r.StartVisible)
	assert.True(t, r.Sound)
	assert.Equal(t, DefaultLogLevel, r.LogLevel)
	assert.Equal(t, float64(DefaultReferenceWidth), r.ReferenceW)
	assert.Equal(t, float64(DefaultReferenceHeight), r.ReferenceH)
	assert.NotEmpty(t, r.LayoutDB)
	assert.Nil(t, r.Palette)
}

func TestResolve_DebugForcesDebugLevel(t *testing.T) {
	t.Parallel()
	r, err := Resolve(&AppConfig{Log: LogConfig{Level: "WARN"}}, CliFlags{Debug: true, DebugSet: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", r.LogLevel)

	r, err = Resolve(&AppConfig{Log: LogConfig{Level: "WARN"}}, CliFlags{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "warn", r.LogLevel)
	assert.Equal(t, SourceFile, r.LogLevelSource)
}

func TestResolve_SelectsPaletteForTheme(t *testing.T) {
	t.Parallel()
	app := &AppConfig{Theme: "ember", Themes: map[string]Palette{"ember": {Accent: "#ff7f00"}}}
	r, err := Resolve(app, CliFlags{}, nil)
	require.NoError(t, err)
	require.NotNil(t, r.Palette)
	assert.Equal(t, "#ff7f00", r.Palette.Accent)
}

func TestResolve_NoSoundFlag(t *testing.T) {
	t.Parallel()
	r, err := Resolve(&AppConfig{Sound: boolPtr(true)}, CliFlags{NoSound: true, NoSoundSet: true}, nil)
	require.NoError(t, err)
	assert.False(t, r.Sound)
}

func TestResolve_Validation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		app     *AppConfig
		flags   CliFlags
		wantErr bool
	}{
		{name: "success: sqlite backend", app: &AppConfig{LayoutBackend: "sqlite"}},
		{name: "success: websocket with url", flags: CliFlags{Transport: TransportWebSocket, URL: "ws://localhost:9000"}},
		{name: "success: process with command", flags: CliFlags{Transport: TransportProcess, Command: "host"}},
		{name: "error: unknown backend", app: &AppConfig{LayoutBackend: "redis"}, wantErr: true},
		{name: "error: unknown transport", flags: CliFlags{Transport: "carrier-pigeon"}, wantErr: true},
		{name: "error: process without command", flags: CliFlags{Transport: TransportProcess}, wantErr: true},
		{name: "error: websocket with http url", flags: CliFlags{Transport: TransportWebSocket, URL: "http://x"}, wantErr: true},
		{name: "error: negative timeout", flags: CliFlags{CommandTimeout: -time.Second}, wantErr: true},
		{name: "error: negative frame interval", app: &AppConfig{FrameInterval: -time.Millisecond}, wantErr: true},
		{name: "error: negative reference", app: &AppConfig{Reference: ReferenceConfig{Width: -1}}, wantErr: true},
		{name: "error: unknown log level", app: &AppConfig{Log: LogConfig{Level: "loud"}}, wantErr: true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Resolve(tc.app, tc.flags, nil)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}
