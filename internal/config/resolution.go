package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Sources recorded on ResolvedConfig.
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// ResolvedConfig holds the final configuration after applying all priority rules.
type ResolvedConfig struct {
	ConfigPath string

	AdaptersDir    string
	LayoutsDir     string
	LayoutBackend  string
	LayoutDB       string
	Transport      TransportConfig
	CommandTimeout time.Duration
	FrameInterval  time.Duration
	StartVisible   bool
	Theme          string
	Palette        *Palette
	NoColor        bool
	Debug          bool
	LogFile        string
	LogLevel       string
	MetricsAddr    string
	Sound          bool
	Headless       bool
	Disabled       []string
	ReferenceW     float64
	ReferenceH     float64

	// Resolution metadata (for debugging)
	AdaptersDirSource string
	TransportSource   string
	ThemeSource       string
	NoColorSource     string
	LogLevelSource    string
}

// ResolveConfig loads the config file and resolves it against the flags and
// the process environment.
func ResolveConfig(flags CliFlags) (*ResolvedConfig, error) {
	app, path, err := LoadConfig(flags.ConfigFile)
	if err != nil {
		return nil, err
	}
	resolved, err := Resolve(app, flags, os.Getenv)
	if err != nil {
		return nil, err
	}
	resolved.ConfigPath = path
	return resolved, nil
}

// Resolve applies CLI > env > file > default to every key. getenv is
// usually os.Getenv.
func Resolve(app *AppConfig, flags CliFlags, getenv func(string) string) (*ResolvedConfig, error) {
	if app == nil {
		app = &AppConfig{}
	}
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	r := &ResolvedConfig{Headless: flags.Headless}

	r.AdaptersDir, r.AdaptersDirSource = pickString(flags.AdaptersDir, getenv("VEIL_ADAPTERS_DIR"), app.AdaptersDir, DefaultAdaptersDir)
	r.LayoutsDir, _ = pickString(flags.LayoutsDir, getenv("VEIL_LAYOUTS_DIR"), app.LayoutsDir, defaultLayoutsDir())
	r.LayoutBackend, _ = pickString(flags.LayoutBackend, getenv("VEIL_LAYOUT_BACKEND"), app.LayoutBackend, DefaultLayoutBackend)
	r.LayoutDB, _ = pickString("", getenv("VEIL_LAYOUT_DB"), app.LayoutDB, filepath.Join(r.LayoutsDir, "layouts.db"))

	r.Transport.Kind, r.TransportSource = pickString(flags.Transport, getenv("VEIL_TRANSPORT"), app.Transport.Kind, DefaultTransport)
	r.Transport.Command, _ = pickString(flags.Command, getenv("VEIL_COMMAND"), app.Transport.Command, "")
	r.Transport.URL, _ = pickString(flags.URL, getenv("VEIL_URL"), app.Transport.URL, "")

	r.CommandTimeout = pickDuration(flags.CommandTimeout, app.CommandTimeout, DefaultCommandTimeout)
	r.FrameInterval = pickDuration(flags.FrameInterval, app.FrameInterval, DefaultFrameInterval)

	r.StartVisible, _ = pickBool(flags.StartVisible, flags.StartVisibleSet, envBool(getenv, "VEIL_START_VISIBLE"), app.StartVisible, false)
	r.NoColor, r.NoColorSource = pickBool(flags.NoColor, flags.NoColorSet, envBool(getenv, "VEIL_NO_COLOR", "NO_COLOR"), app.NoColor, false)
	r.Sound, _ = pickBool(!flags.NoSound, flags.NoSoundSet, envBool(getenv, "VEIL_SOUND"), app.Sound, true)
	r.Debug, _ = pickBool(flags.Debug, flags.DebugSet, envBool(getenv, "VEIL_DEBUG"), nil, false)

	r.Theme, r.ThemeSource = pickString(flags.ThemeName, getenv("VEIL_THEME"), app.Theme, DefaultTheme)
	if p, ok := app.Themes[r.Theme]; ok {
		p := p
		r.Palette = &p
	}

	r.LogFile, _ = pickString(flags.LogFile, getenv("VEIL_LOG_FILE"), app.Log.File, "")
	r.LogLevel, r.LogLevelSource = pickString("", getenv("VEIL_LOG_LEVEL"), strings.ToLower(app.Log.Level), DefaultLogLevel)
	if r.Debug {
		r.LogLevel = "debug"
		r.LogLevelSource = SourceCLI
	}
	r.MetricsAddr, _ = pickString(flags.MetricsAddr, getenv("VEIL_METRICS_ADDR"), app.MetricsAddr, "")

	r.Disabled = append([]string(nil), app.Disabled...)
	r.ReferenceW = app.Reference.Width
	if r.ReferenceW == 0 {
		r.ReferenceW = DefaultReferenceWidth
	}
	r.ReferenceH = app.Reference.Height
	if r.ReferenceH == 0 {
		r.ReferenceH = DefaultReferenceHeight
	}

	if err := validateResolvedConfig(r); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return r, nil
}

func pickString(cli, env, file, def string) (string, string) {
	switch {
	case cli != "":
		return cli, SourceCLI
	case env != "":
		return env, SourceEnv
	case file != "":
		return file, SourceFile
	default:
		return def, SourceDefault
	}
}

func pickDuration(cli, file, def time.Duration) time.Duration {
	switch {
	case cli != 0:
		return cli
	case file != 0:
		return file
	default:
		return def
	}
}

func pickBool(cli, cliSet bool, env, file *bool, def bool) (bool, string) {
	switch {
	case cliSet:
		return cli, SourceCLI
	case env != nil:
		return *env, SourceEnv
	case file != nil:
		return *file, SourceFile
	default:
		return def, SourceDefault
	}
}

// envBool reads a boolean from environment variables, trying multiple keys.
// Returns nil if none are set to a parseable value.
func envBool(getenv func(string) string, keys ...string) *bool {
	for _, key := range keys {
		if val := getenv(key); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				return &b
			}
		}
	}
	return nil
}

// validateResolvedConfig returns an error for invalid states.
func validateResolvedConfig(cfg *ResolvedConfig) error {
	switch cfg.LayoutBackend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("%w: layout_backend %q (must be: file, sqlite)", ErrInvalidConfig, cfg.LayoutBackend)
	}

	switch cfg.Transport.Kind {
	case TransportStdio:
	case TransportProcess:
		if cfg.Transport.Command == "" {
			return fmt.Errorf("%w: transport %q needs a command", ErrInvalidConfig, cfg.Transport.Kind)
		}
	case TransportWebSocket:
		if !strings.HasPrefix(cfg.Transport.URL, "ws://") && !strings.HasPrefix(cfg.Transport.URL, "wss://") {
			return fmt.Errorf("%w: transport %q needs a ws:// or wss:// url, got %q", ErrInvalidConfig, cfg.Transport.Kind, cfg.Transport.URL)
		}
	default:
		return fmt.Errorf("%w: transport %q (must be: stdio, process, websocket)", ErrInvalidConfig, cfg.Transport.Kind)
	}

	if cfg.CommandTimeout <= 0 {
		return fmt.Errorf("%w: command_timeout must be positive, got: %s", ErrInvalidConfig, cfg.CommandTimeout)
	}
	if cfg.FrameInterval <= 0 {
		return fmt.Errorf("%w: frame_interval must be positive, got: %s", ErrInvalidConfig, cfg.FrameInterval)
	}
	if cfg.ReferenceW <= 0 || cfg.ReferenceH <= 0 {
		return fmt.Errorf("%w: reference size must be positive, got: %gx%g", ErrInvalidConfig, cfg.ReferenceW, cfg.ReferenceH)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q (must be: debug, info, warn, error)", ErrInvalidConfig, cfg.LogLevel)
	}
	return nil
}
