package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/DiNaSoR/Veil/pkg/hud"
)

// FileSuffix names per-adapter layout files inside the layouts directory.
const FileSuffix = ".layout.json"

// fileData is the on-disk shape of one adapter's layout.
type fileData struct {
	AdapterID string            `json:"AdapterId"`
	Positions map[string]Point  `json:"Positions"`
	Sizes     map[string]Extent `json:"Sizes"`
}

// FileStore keeps one JSON file per adapter. All files are read when the
// store is opened; every change rewrites that adapter's file.
type FileStore struct {
	dir    string
	logger *slog.Logger

	mu      sync.Mutex
	layouts map[string]*Data
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) FileOption {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// OpenFileStore creates dir if needed and loads every layout file in it.
// Unreadable files are logged and skipped.
func OpenFileStore(dir string, opts ...FileOption) (*FileStore, error) {
	s := &FileStore{
		dir:     dir,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		layouts: make(map[string]*Data),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create layouts dir: %w", err)
	}
	if err := s.loadAll(); err != nil {
		return nil, err
	}
	s.logger.Info("layout store opened", "dir", dir, "adapters", len(s.layouts))
	return s, nil
}

func (s *FileStore) loadAll() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read layouts dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), FileSuffix) {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("failed to read layout", "file", path, "error", err)
			continue
		}
		var fd fileData
		if err := json.Unmarshal(raw, &fd); err != nil {
			s.logger.Warn("failed to parse layout", "file", path, "error", err)
			continue
		}
		if fd.AdapterID == "" {
			continue
		}
		d := newData(fd.AdapterID)
		for id, p := range fd.Positions {
			d.Positions[id] = p
		}
		for id, sz := range fd.Sizes {
			d.Sizes[id] = sz
		}
		s.layouts[d.AdapterID] = d
	}
	return nil
}

// Dir returns the layouts directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(adapterID string) string {
	return filepath.Join(s.dir, adapterID+FileSuffix)
}

// Position returns the saved position for an element.
func (s *FileStore) Position(adapterID, elementID string) (hud.Vec2, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.layouts[adapterID]
	if !ok {
		return hud.Vec2{}, false
	}
	p, ok := d.Positions[elementID]
	return hud.Vec2{X: p.X, Y: p.Y}, ok
}

// Size returns the saved size for an element.
func (s *FileStore) Size(adapterID, elementID string) (hud.Vec2, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.layouts[adapterID]
	if !ok {
		return hud.Vec2{}, false
	}
	sz, ok := d.Sizes[elementID]
	return hud.Vec2{X: sz.Width, Y: sz.Height}, ok
}

// SetPosition records pos and rewrites the adapter's file.
func (s *FileStore) SetPosition(adapterID, elementID string, pos hud.Vec2) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.layoutFor(adapterID)
	d.Positions[elementID] = Point{X: pos.X, Y: pos.Y}
	return s.save(d)
}

// SetSize records size and rewrites the adapter's file.
func (s *FileStore) SetSize(adapterID, elementID string, size hud.Vec2) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.layoutFor(adapterID)
	d.Sizes[elementID] = Extent{Width: size.X, Height: size.Y}
	return s.save(d)
}

// Reset forgets the adapter's layout and deletes its file.
func (s *FileStore) Reset(adapterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.layouts, adapterID)
	if err := os.Remove(s.path(adapterID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reset layout %s: %w", adapterID, err)
	}
	s.logger.Info("layout reset", "adapter", adapterID)
	return nil
}

// Adapters lists adapters with saved layout.
func (s *FileStore) Adapters() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.layouts))
	for id := range s.layouts {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// Snapshot returns a copy of the adapter's saved layout.
func (s *FileStore) Snapshot(adapterID string) (Data, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.layouts[adapterID]
	if !ok {
		return Data{}, false
	}
	cp := newData(adapterID)
	for k, v := range d.Positions {
		cp.Positions[k] = v
	}
	for k, v := range d.Sizes {
		cp.Sizes[k] = v
	}
	return *cp, true
}

// Close is a no-op; every change is already on disk.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) layoutFor(adapterID string) *Data {
	d, ok := s.layouts[adapterID]
	if !ok {
		d = newData(adapterID)
		s.layouts[adapterID] = d
	}
	return d
}

func (s *FileStore) save(d *Data) error {
	raw, err := json.MarshalIndent(fileData{AdapterID: d.AdapterID, Positions: d.Positions, Sizes: d.Sizes}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout %s: %w", d.AdapterID, err)
	}
	tmp := s.path(d.AdapterID) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write layout %s: %w", d.AdapterID, err)
	}
	if err := os.Rename(tmp, s.path(d.AdapterID)); err != nil {
		return fmt.Errorf("write layout %s: %w", d.AdapterID, err)
	}
	return nil
}
