// Package layout persists user-dragged HUD positions and sizes per adapter.
package layout

import (
	"errors"
	"fmt"

	"github.com/DiNaSoR/Veil/pkg/hud"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown layout backend")

// Store is a hud.LayoutStore that holds resources until closed.
type Store interface {
	hud.LayoutStore
	// Adapters lists the adapter ids that have saved layout, sorted.
	Adapters() ([]string, error)
	Close() error
}

// Point is a saved position in reference pixels.
type Point struct {
	X float64
	Y float64
}

// Extent is a saved size in reference pixels.
type Extent struct {
	Width  float64
	Height float64
}

// Data is everything saved for one adapter.
type Data struct {
	AdapterID string
	Positions map[string]Point
	Sizes     map[string]Extent
}

func newData(adapterID string) *Data {
	return &Data{
		AdapterID: adapterID,
		Positions: make(map[string]Point),
		Sizes:     make(map[string]Extent),
	}
}

// Open creates the store for backend. dir is used by the file backend and
// dbPath by the sqlite backend.
func Open(backend, dir, dbPath string) (Store, error) {
	switch backend {
	case "", BackendFile:
		return OpenFileStore(dir)
	case BackendSQLite:
		return OpenSQLiteStore(dbPath)
	default:
		return nil, fmt.Errorf("%q: %w", backend, ErrUnknownBackend)
	}
}
