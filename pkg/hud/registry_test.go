package hud_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiNaSoR/Veil/pkg/hud"
	"github.com/DiNaSoR/Veil/pkg/hud/hudtest"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

var owner = hudtest.Owner{AdapterID: "BloodCraft", Dir: "/adapters/BloodCraft"}

func TestRegistry_Create_MatchesTypeCaseInsensitively(t *testing.T) {
	t.Parallel()
	reg := hud.NewRegistry(nil)
	require.NoError(t, reg.Register("progressBar", recorderFactory))

	for _, typ := range []string{"progressBar", "PROGRESSBAR", "progressbar"} {
		c, ok := reg.Create(owner, manifest.HudElementDef{ID: "xp", Type: typ})
		require.True(t, ok, typ)
		assert.Equal(t, "BloodCraft."+typ+".xp", c.ID())
	}
	assert.True(t, reg.Has("ProgressBar"))
	assert.Equal(t, []string{"progressBar"}, reg.Types())
}

func TestRegistry_Create_ReturnsFalse_When_TypeUnknownOrFactoryFails(t *testing.T) {
	t.Parallel()
	reg := hud.NewRegistry(nil)
	require.NoError(t, reg.Register("erroring", func(hud.Owner, manifest.HudElementDef) (hud.Component, error) {
		return nil, errBoom
	}))
	require.NoError(t, reg.Register("panicking", func(hud.Owner, manifest.HudElementDef) (hud.Component, error) {
		panic("constructor exploded")
	}))
	require.NoError(t, reg.Register("empty", func(hud.Owner, manifest.HudElementDef) (hud.Component, error) {
		return nil, nil
	}))

	tests := []struct {
		name string
		typ  string
	}{
		{name: "error: unknown type", typ: "radar"},
		{name: "error: factory error", typ: "erroring"},
		{name: "error: factory panic", typ: "panicking"},
		{name: "error: nil component", typ: "empty"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var (
				c  hud.Component
				ok bool
			)
			assert.NotPanics(t, func() {
				c, ok = reg.Create(owner, manifest.HudElementDef{ID: "x", Type: tc.typ})
			})
			assert.False(t, ok)
			assert.Nil(t, c)
		})
	}
}

func TestRegistry_Register_ReplacesAndRejectsInvalid(t *testing.T) {
	t.Parallel()
	reg := hud.NewRegistry(nil)

	assert.Error(t, reg.Register("", recorderFactory))
	assert.Error(t, reg.Register("label", nil))

	calls := 0
	require.NoError(t, reg.Register("label", recorderFactory))
	require.NoError(t, reg.Register("LABEL", func(o hud.Owner, d manifest.HudElementDef) (hud.Component, error) {
		calls++
		return recorderFactory(o, d)
	}))
	_, ok := reg.Create(owner, manifest.HudElementDef{ID: "a", Type: "label"})
	require.True(t, ok)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"LABEL"}, reg.Types())
}
