package layout

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/DiNaSoR/Veil/pkg/hud"
)

// SQLiteStore keeps every adapter's layout in one SQLite database. A row
// holds an element's position, size, or both; absent values are NULL.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the database at path and ensures the
// schema exists. ":memory:" gives a private in-memory store.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create layout db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS layouts (
		adapter_id TEXT NOT NULL,
		element_id TEXT NOT NULL,
		x          REAL,
		y          REAL,
		width      REAL,
		height     REAL,
		updated_at TEXT NOT NULL DEFAULT (datetime('now')),
		PRIMARY KEY (adapter_id, element_id)
	)`)
	return err
}

// Position returns the saved position for an element.
func (s *SQLiteStore) Position(adapterID, elementID string) (hud.Vec2, bool) {
	return s.pair(`SELECT x, y FROM layouts WHERE adapter_id = ? AND element_id = ?`, adapterID, elementID)
}

// Size returns the saved size for an element.
func (s *SQLiteStore) Size(adapterID, elementID string) (hud.Vec2, bool) {
	return s.pair(`SELECT width, height FROM layouts WHERE adapter_id = ? AND element_id = ?`, adapterID, elementID)
}

func (s *SQLiteStore) pair(query, adapterID, elementID string) (hud.Vec2, bool) {
	var a, b sql.NullFloat64
	err := s.db.QueryRowContext(context.Background(), query, adapterID, elementID).Scan(&a, &b)
	if err != nil || !a.Valid || !b.Valid {
		return hud.Vec2{}, false
	}
	return hud.Vec2{X: a.Float64, Y: b.Float64}, true
}

// SetPosition upserts the element's position.
func (s *SQLiteStore) SetPosition(adapterID, elementID string, pos hud.Vec2) error {
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO layouts (adapter_id, element_id, x, y) VALUES (?, ?, ?, ?)
		 ON CONFLICT(adapter_id, element_id) DO UPDATE SET x = excluded.x, y = excluded.y, updated_at = datetime('now')`,
		adapterID, elementID, pos.X, pos.Y)
	if err != nil {
		return fmt.Errorf("save position %s/%s: %w", adapterID, elementID, err)
	}
	return nil
}

// SetSize upserts the element's size.
func (s *SQLiteStore) SetSize(adapterID, elementID string, size hud.Vec2) error {
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO layouts (adapter_id, element_id, width, height) VALUES (?, ?, ?, ?)
		 ON CONFLICT(adapter_id, element_id) DO UPDATE SET width = excluded.width, height = excluded.height, updated_at = datetime('now')`,
		adapterID, elementID, size.X, size.Y)
	if err != nil {
		return fmt.Errorf("save size %s/%s: %w", adapterID, elementID, err)
	}
	return nil
}

// Reset deletes every row for the adapter.
func (s *SQLiteStore) Reset(adapterID string) error {
	if _, err := s.db.ExecContext(context.Background(), `DELETE FROM layouts WHERE adapter_id = ?`, adapterID); err != nil {
		return fmt.Errorf("reset layout %s: %w", adapterID, err)
	}
	return nil
}

// Adapters lists adapters with saved layout.
func (s *SQLiteStore) Adapters() ([]string, error) {
	rows, err := s.db.QueryContext(context.Background(), `SELECT DISTINCT adapter_id FROM layouts ORDER BY adapter_id`)
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
