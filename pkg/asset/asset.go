// Package asset loads files shipped inside adapter folders, such as icons
// and notification sounds.
package asset

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// ErrOutsideAdapter is returned for paths that escape the adapter folder.
var ErrOutsideAdapter = errors.New("asset path escapes adapter folder")

// Loader reads and caches adapter assets from <root>/<adapterId>/<rel>.
// Cache keys are case-folded, so "Icons/XP.png" and "icons/xp.png" share an
// entry. A missing file is warned about once.
type Loader struct {
	root   string
	logger *slog.Logger

	mu     sync.Mutex
	cache  map[string][]byte
	missed map[string]bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the loader's logger.
func WithLogger(l *slog.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// NewLoader creates a loader rooted at the adapters directory.
func NewLoader(root string, opts ...Option) *Loader {
	l := &Loader{
		root:   root,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		cache:  make(map[string][]byte),
		missed: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func key(adapterID, rel string) string {
	return cases.Fold().String(adapterID + "/" + filepath.ToSlash(filepath.Clean(rel)))
}

// Path resolves rel inside the adapter folder.
func (l *Loader) Path(adapterID, rel string) (string, error) {
	if rel == "" || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%q: %w", rel, ErrOutsideAdapter)
	}
	clean := filepath.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q: %w", rel, ErrOutsideAdapter)
	}
	return filepath.Join(l.root, adapterID, clean), nil
}

// Load returns the file's bytes, reading it at most once.
func (l *Loader) Load(adapterID, rel string) ([]byte, error) {
	k := key(adapterID, rel)

	l.mu.Lock()
	if data, ok := l.cache[k]; ok {
		l.mu.Unlock()
		return data, nil
	}
	l.mu.Unlock()

	path, err := l.Path(adapterID, rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		l.mu.Lock()
		if !l.missed[k] {
			l.missed[k] = true
			l.logger.Warn("asset unavailable", "adapter", adapterID, "path", rel, "error", err)
		}
		l.mu.Unlock()
		return nil, fmt.Errorf("load asset %s/%s: %w", adapterID, rel, err)
	}

	l.mu.Lock()
	l.cache[k] = data
	delete(l.missed, k)
	l.mu.Unlock()
	return data, nil
}

// Len reports the number of cached assets.
func (l *Loader) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cache)
}

// Clear drops every cached asset and forgets past warnings.
func (l *Loader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string][]byte)
	l.missed = make(map[string]bool)
}
