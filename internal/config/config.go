package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up locally and in the user config dir.
const FileName = ".veil.yaml"

// Transport kinds.
const (
	TransportStdio     = "stdio"
	TransportProcess   = "process"
	TransportWebSocket = "websocket"
)

// Defaults.
const (
	DefaultAdaptersDir     = "adapters"
	DefaultLayoutBackend   = "file"
	DefaultTransport       = TransportStdio
	DefaultCommandTimeout  = 5 * time.Second
	DefaultFrameInterval   = 100 * time.Millisecond
	DefaultTheme           = "veil"
	DefaultLogLevel        = "info"
	DefaultReferenceWidth  = 1920
	DefaultReferenceHeight = 1080
)

// CliFlags holds the values of command-line flags. The *Set fields record
// whether the user passed the flag explicitly.
type CliFlags struct {
	ConfigFile     string
	AdaptersDir    string
	LayoutsDir     string
	LayoutBackend  string
	Transport      string
	Command        string
	URL            string
	CommandTimeout time.Duration
	FrameInterval  time.Duration
	StartVisible   bool
	ThemeName      string
	NoColor        bool
	Debug          bool
	LogFile        string
	MetricsAddr    string
	NoSound        bool
	Headless       bool

	StartVisibleSet bool
	NoColorSet      bool
	DebugSet        bool
	NoSoundSet      bool
}

// TransportConfig selects how lines reach the host.
type TransportConfig struct {
	Kind    string `yaml:"kind"`
	Command string `yaml:"command,omitempty"`
	URL     string `yaml:"url,omitempty"`
}

// LogConfig selects where structured logs go.
type LogConfig struct {
	File  string `yaml:"file,omitempty"`
	Level string `yaml:"level,omitempty"`
}

// ReferenceConfig is the design resolution manifests are authored against.
type ReferenceConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Palette overrides theme colors. Empty fields keep the base theme's value.
type Palette struct {
	Accent  string `yaml:"accent,omitempty"`
	Text    string `yaml:"text,omitempty"`
	Muted   string `yaml:"muted,omitempty"`
	Border  string `yaml:"border,omitempty"`
	Fill    string `yaml:"fill,omitempty"`
	Track   string `yaml:"track,omitempty"`
	Success string `yaml:"success,omitempty"`
	Warning string `yaml:"warning,omitempty"`
	Error   string `yaml:"error,omitempty"`
}

// AppConfig is the content of .veil.yaml.
type AppConfig struct {
	AdaptersDir    string             `yaml:"adapters_dir,omitempty"`
	LayoutsDir     string             `yaml:"layouts_dir,omitempty"`
	LayoutBackend  string             `yaml:"layout_backend,omitempty"`
	LayoutDB       string             `yaml:"layout_db,omitempty"`
	Transport      TransportConfig    `yaml:"transport"`
	CommandTimeout time.Duration      `yaml:"command_timeout,omitempty"`
	FrameInterval  time.Duration      `yaml:"frame_interval,omitempty"`
	StartVisible   *bool              `yaml:"start_visible,omitempty"`
	Theme          string             `yaml:"theme,omitempty"`
	Themes         map[string]Palette `yaml:"themes,omitempty"`
	NoColor        *bool              `yaml:"no_color,omitempty"`
	Log            LogConfig          `yaml:"log"`
	MetricsAddr    string             `yaml:"metrics_addr,omitempty"`
	Sound          *bool              `yaml:"sound,omitempty"`
	Disabled       []string           `yaml:"disabled,omitempty"`
	Reference      ReferenceConfig    `yaml:"reference"`
}

// LoadConfig reads the config file at path, or the first of getConfigPath
// when path is empty. A missing default file is not an error; it yields an
// empty AppConfig and an empty source path.
func LoadConfig(path string) (*AppConfig, string, error) {
	explicit := path != ""
	if !explicit {
		path = getConfigPath()
		if path == "" {
			return &AppConfig{}, "", nil
		}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &AppConfig{}, "", nil
		}
		return nil, path, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, path, nil
}

// getConfigPath checks the local directory first, then the user config dir.
func getConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	userPath := filepath.Join(configHome, "veil", FileName)
	if _, err := os.Stat(userPath); err == nil {
		return userPath
	}
	return ""
}

// defaultLayoutsDir is <user config>/veil/layouts, or ./layouts when the
// user config dir is unavailable.
func defaultLayoutsDir() string {
	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return "layouts"
	}
	return filepath.Join(configHome, "veil", "layouts")
}
