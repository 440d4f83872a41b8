package layout_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiNaSoR/Veil/pkg/hud"
	"github.com/DiNaSoR/Veil/pkg/layout"
)

func TestFileStore_SetPosition_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	s, err := layout.OpenFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.SetPosition("BloodCraft", "xp", hud.Vec2{X: 40, Y: 120}))
	require.NoError(t, s.SetSize("BloodCraft", "xp", hud.Vec2{X: 300, Y: 24}))
	require.NoError(t, s.Close())

	assert.FileExists(t, filepath.Join(dir, "BloodCraft.layout.json"))

	reopened, err := layout.OpenFileStore(dir)
	require.NoError(t, err)
	pos, ok := reopened.Position("BloodCraft", "xp")
	require.True(t, ok)
	assert.Equal(t, hud.Vec2{X: 40, Y: 120}, pos)
	size, ok := reopened.Size("BloodCraft", "xp")
	require.True(t, ok)
	assert.Equal(t, hud.Vec2{X: 300, Y: 24}, size)

	_, ok = reopened.Position("BloodCraft", "blood")
	assert.False(t, ok)
	_, ok = reopened.Position("Arena", "xp")
	assert.False(t, ok)
}

func TestFileStore_Open_ReadsPersistedShape(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	raw := `{
  "AdapterId": "BloodCraft",
  "Positions": {"xp": {"X": 10, "Y": 20}},
  "Sizes": {}
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "BloodCraft.layout.json"), []byte(raw), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.layout.json"), []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	s, err := layout.OpenFileStore(dir)
	require.NoError(t, err)
	pos, ok := s.Position("BloodCraft", "xp")
	require.True(t, ok)
	assert.Equal(t, hud.Vec2{X: 10, Y: 20}, pos)

	ids, err := s.Adapters()
	require.NoError(t, err)
	assert.Equal(t, []string{"BloodCraft"}, ids)
}

func TestFileStore_Reset_DeletesFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s, err := layout.OpenFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.SetPosition("BloodCraft", "xp", hud.Vec2{X: 1, Y: 2}))

	require.NoError(t, s.Reset("BloodCraft"))
	assert.NoFileExists(t, filepath.Join(dir, "BloodCraft.layout.json"))
	_, ok := s.Position("BloodCraft", "xp")
	assert.False(t, ok)

	assert.NoError(t, s.Reset("BloodCraft"), "reset of unknown adapter")
}

func TestFileStore_Snapshot_ReturnsCopy(t *testing.T) {
	t.Parallel()
	s, err := layout.OpenFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.SetPosition("BloodCraft", "xp", hud.Vec2{X: 1, Y: 2}))

	snap, ok := s.Snapshot("BloodCraft")
	require.True(t, ok)
	snap.Positions["xp"] = layout.Point{X: 99, Y: 99}

	pos, _ := s.Position("BloodCraft", "xp")
	assert.Equal(t, hud.Vec2{X: 1, Y: 2}, pos)
}

func TestOpen_SelectsBackend(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tests := []struct {
		name    string
		backend string
		wantErr error
	}{
		{name: "success: default is file", backend: ""},
		{name: "success: file", backend: layout.BackendFile},
		{name: "success: sqlite", backend: layout.BackendSQLite},
		{name: "error: unknown backend", backend: "redis", wantErr: layout.ErrUnknownBackend},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, err := layout.Open(tc.backend, filepath.Join(dir, tc.name), filepath.Join(dir, tc.name, "layout.db"))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, s.Close())
		})
	}
}
