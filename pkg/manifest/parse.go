package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies the manifest encoding.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FileNames are the manifest names looked up in an adapter folder, in order.
var FileNames = []string{"manifest.json", "manifest.yaml", "manifest.yml"}

var (
	// ErrNoManifest means an adapter folder holds none of FileNames.
	ErrNoManifest = errors.New("no manifest file")
	// ErrEmptyManifest means the manifest file has no content.
	ErrEmptyManifest = errors.New("manifest is empty")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Sniff guesses the encoding from the leading bytes: an object brace means
// JSON, any other content is treated as YAML.
func Sniff(data []byte) Format {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return FormatUnknown
	}
	if data[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

// FormatFromPath maps a file extension to a Format.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// Parse decodes a manifest. FormatUnknown sniffs the content.
func Parse(data []byte, format Format) (*Manifest, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyManifest
	}
	if format == FormatUnknown {
		format = Sniff(data)
	}

	jsonData := data
	if format == FormatYAML {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parse yaml manifest: %w", err)
		}
		jsonData = converted
	}

	var m Manifest
	if err := json.Unmarshal(jsonData, &m); err != nil {
		return nil, fmt.Errorf("parse %s manifest: %w", format, err)
	}
	m.applyDefaults()
	return &m, nil
}

// Find returns the first manifest file present in dir.
func Find(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("%s: %w", dir, ErrNoManifest)
}

// LoadDir finds and parses the manifest in an adapter folder.
// It returns the parsed manifest and the file it came from.
func LoadDir(dir string) (*Manifest, string, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read manifest: %w", err)
	}
	format := FormatFromPath(path)
	if Sniff(data) == FormatJSON {
		format = FormatJSON
	}
	m, err := Parse(data, format)
	if err != nil {
		return nil, path, fmt.Errorf("%s: %w", path, err)
	}
	return m, path, nil
}
