package adapter

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/DiNaSoR/Veil/pkg/hud"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

// Warning records an adapter folder that discovery skipped.
type Warning struct {
	Dir string
	Err error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Dir, w.Err)
}

// Registry holds the adapters found at startup, keyed by folder name.
type Registry struct {
	root     string
	adapters map[string]*Adapter
	logger   *slog.Logger
}

// NewRegistry creates an empty registry rooted at root.
func NewRegistry(root string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{root: root, adapters: make(map[string]*Adapter), logger: logger}
}

// Discover scans the immediate subdirectories of root for manifests. Folders
// without a manifest, and manifests that fail to parse, are skipped with a
// warning; one bad adapter never stops the others.
func Discover(root string, logger *slog.Logger) (*Registry, []Warning) {
	r := NewRegistry(root, logger)
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("adapters directory not found", "dir", root)
			return r, []Warning{{Dir: root, Err: err}}
		}
		r.logger.Error("read adapters directory", "dir", root, "error", err)
		return r, []Warning{{Dir: root, Err: fmt.Errorf("read adapters dir: %w", err)}}
	}

	var warnings []Warning
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		m, path, err := manifest.LoadDir(dir)
		if err != nil {
			if errors.Is(err, manifest.ErrNoManifest) {
				r.logger.Warn("skipping folder without manifest", "dir", dir)
			} else {
				r.logger.Error("skipping adapter with bad manifest", "dir", dir, "error", err)
			}
			warnings = append(warnings, Warning{Dir: dir, Err: err})
			continue
		}
		a := New(entry.Name(), dir, m, r.logger)
		r.adapters[a.ID()] = a
		r.logger.Info("discovered adapter", "adapter", a.ID(), "manifest", filepath.Base(path), "elements", len(m.Hud.Elements))
	}
	return r, warnings
}

// Add registers an adapter built elsewhere, replacing one with the same id.
func (r *Registry) Add(a *Adapter) {
	r.adapters[a.ID()] = a
}

// Root returns the scanned directory.
func (r *Registry) Root() string { return r.root }

// Get returns the adapter with id.
func (r *Registry) Get(id string) (*Adapter, bool) {
	a, ok := r.adapters[id]
	return a, ok
}

// All returns the adapters sorted by id.
func (r *Registry) All() []*Adapter {
	out := make([]*Adapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Len reports how many adapters were discovered.
func (r *Registry) Len() int { return len(r.adapters) }

// LoadAll loads every adapter and returns the total components spawned.
func (r *Registry) LoadAll(reg *hud.Registry, orch *hud.Orchestrator) int {
	total := 0
	for _, a := range r.All() {
		total += a.Load(reg, orch)
	}
	return total
}

// Shutdown unloads every adapter and clears the registry.
func (r *Registry) Shutdown(orch *hud.Orchestrator) {
	for _, a := range r.All() {
		a.Unload(orch)
	}
	r.adapters = make(map[string]*Adapter)
}
