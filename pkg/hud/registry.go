package hud

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/DiNaSoR/Veil/pkg/manifest"
)

// Factory builds a component of one kind from its element definition.
type Factory func(owner Owner, def manifest.HudElementDef) (Component, error)

// Registry maps case-insensitive type names to factories. It is the only
// place element kinds are dispatched.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	names     map[string]string
	logger    *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = discardLogger()
	}
	return &Registry{
		factories: make(map[string]Factory),
		names:     make(map[string]string),
		logger:    logger,
	}
}

// Register associates typeName with f, replacing any earlier factory.
func (r *Registry) Register(typeName string, f Factory) error {
	if typeName == "" {
		return errors.New("register component type: empty name")
	}
	if f == nil {
		return fmt.Errorf("register component type %q: nil factory", typeName)
	}
	key := fold(typeName)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[key]; exists {
		r.logger.Debug("replacing component factory", "type", typeName)
	}
	r.factories[key] = f
	r.names[key] = typeName
	return nil
}

// Has reports whether typeName is registered.
func (r *Registry) Has(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[fold(typeName)]
	return ok
}

// Types returns the registered names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Create builds a component for def. Unknown types, factory errors and
// factory panics are logged and reported as false.
func (r *Registry) Create(owner Owner, def manifest.HudElementDef) (c Component, ok bool) {
	r.mu.RLock()
	f, found := r.factories[fold(def.Type)]
	r.mu.RUnlock()

	if !found {
		r.logger.Warn("unknown component type", "adapter", owner.ID(), "element", def.ID, "type", def.Type)
		return nil, false
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("component factory panicked", "adapter", owner.ID(), "element", def.ID, "type", def.Type, "panic", fmt.Sprint(p))
			c, ok = nil, false
		}
	}()

	c, err := f(owner, def)
	if err != nil {
		r.logger.Error("component factory failed", "adapter", owner.ID(), "element", def.ID, "type", def.Type, "error", err)
		return nil, false
	}
	if c == nil {
		r.logger.Warn("component factory returned nothing", "adapter", owner.ID(), "element", def.ID, "type", def.Type)
		return nil, false
	}
	return c, true
}
