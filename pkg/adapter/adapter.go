package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/DiNaSoR/Veil/pkg/hud"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

// Adapter is one discovered adapter folder and the components it spawned.
type Adapter struct {
	id       string
	path     string
	manifest *manifest.Manifest
	logger   *slog.Logger

	active      bool
	initialized bool
	components  []hud.Component
}

// New wraps a parsed manifest. id is normally the folder name.
func New(id, path string, m *manifest.Manifest, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if m == nil {
		m = &manifest.Manifest{Version: manifest.DefaultVersion}
	}
	return &Adapter{id: id, path: path, manifest: m, logger: logger.With("adapter", id)}
}

// ID returns the adapter id, the name of its directory.
func (a *Adapter) ID() string { return a.id }

// Path returns the adapter directory.
func (a *Adapter) Path() string { return a.path }

// Manifest returns the parsed manifest, or an empty default one.
func (a *Adapter) Manifest() *manifest.Manifest { return a.manifest }

// Active reports whether the adapter is currently relevant.
func (a *Adapter) Active() bool { return a.active }

// Initialized reports whether Load has run since the last Unload.
func (a *Adapter) Initialized() bool { return a.initialized }

// SetActive marks the adapter relevant or not without loading or unloading.
func (a *Adapter) SetActive(active bool) { a.active = active }

// Components returns the spawned components in manifest order.
func (a *Adapter) Components() []hud.Component {
	return append([]hud.Component(nil), a.components...)
}

// DisplayName falls back to the mod id, then the adapter id.
func (a *Adapter) DisplayName() string {
	switch {
	case a.manifest.DisplayName != "":
		return a.manifest.DisplayName
	case a.manifest.ModID != "":
		return a.manifest.ModID
	default:
		return a.id
	}
}

// Load creates one component per HUD element and registers it with orch.
// Elements that cannot be built or registered are logged and skipped.
// It returns how many components were spawned; a loaded adapter returns 0.
func (a *Adapter) Load(reg *hud.Registry, orch *hud.Orchestrator) (spawned int) {
	if a.initialized {
		return 0
	}
	defer func() {
		if p := recover(); p != nil {
			a.logger.Error("adapter load panicked", "panic", fmt.Sprint(p))
		}
		a.initialized = true
		a.active = true
	}()

	for _, def := range a.manifest.Hud.Elements {
		c, ok := reg.Create(a, def)
		if !ok {
			continue
		}
		if err := orch.Register(c); err != nil {
			level := slog.LevelError
			if errors.Is(err, hud.ErrDuplicateComponent) {
				level = slog.LevelWarn
			}
			a.logger.Log(context.Background(), level, "component not registered", "element", def.ID, "error", err)
			continue
		}
		a.components = append(a.components, c)
		spawned++
	}
	a.logger.Info("adapter loaded", "components", spawned, "elements", len(a.manifest.Hud.Elements))
	return spawned
}

// Unload unregisters and destroys the adapter's components, newest first.
// Unloading an adapter that is not loaded does nothing.
func (a *Adapter) Unload(orch *hud.Orchestrator) {
	if !a.initialized {
		return
	}
	for i := len(a.components) - 1; i >= 0; i-- {
		c := a.components[i]
		if orch != nil {
			orch.Unregister(c.ID())
		}
		a.destroy(c)
	}
	a.components = nil
	a.initialized = false
	a.active = false
	a.logger.Info("adapter unloaded")
}

func (a *Adapter) destroy(c hud.Component) {
	defer func() {
		if p := recover(); p != nil {
			a.logger.Error("component destroy panicked", "component", c.ID(), "panic", fmt.Sprint(p))
		}
	}()
	c.Destroy()
}
