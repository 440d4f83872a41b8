package widget

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiNaSoR/Veil/pkg/binding"
	"github.com/DiNaSoR/Veil/pkg/hud"
	"github.com/DiNaSoR/Veil/pkg/hud/hudtest"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

var owner = hudtest.Owner{AdapterID: "BloodCraft", Dir: "/adapters/BloodCraft"}

type mapAssets map[string]string

func (m mapAssets) Load(adapterID, rel string) ([]byte, error) {
	if s, ok := m[adapterID+"/"+rel]; ok {
		return []byte(s), nil
	}
	return nil, errors.New("missing")
}

func setup(t *testing.T, def manifest.HudElementDef) (hud.Component, *hudtest.Surface, *hudtest.Sender) {
	t.Helper()
	reg := hud.NewRegistry(nil)
	require.NoError(t, RegisterBuiltins(reg))
	c, ok := reg.Create(owner, def)
	require.True(t, ok)
	surface := hudtest.NewSurface()
	sender := &hudtest.Sender{}
	require.NoError(t, c.Initialize(hud.Services{
		Surface: surface,
		Sender:  sender,
		Assets:  mapAssets{"BloodCraft/icons/xp.txt": "  XP icon\nsecond line"},
	}))
	return c, surface, sender
}

func TestRegisterBuiltins_RegistersAllKinds(t *testing.T) {
	t.Parallel()
	reg := hud.NewRegistry(nil)
	require.NoError(t, RegisterBuiltins(reg))
	assert.Equal(t, []string{KindButton, KindLabel, KindPanel, KindProgressBar}, reg.Types())
}

func TestProgressBar_OnData_UpdatesFillAndLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		data      binding.Data
		wantRatio float64
		wantText  string
		wantLabel string
	}{
		{name: "success: current and max", data: binding.Data{"current": "340", "max": "500"}, wantRatio: 0.68, wantText: "68%", wantLabel: "XP"},
		{name: "success: percent", data: binding.Data{"percent": "25"}, wantRatio: 0.25, wantText: "25%", wantLabel: "XP"},
		{name: "success: clamps overflow", data: binding.Data{"current": "9", "max": "3"}, wantRatio: 1, wantText: "100%", wantLabel: "XP"},
		{name: "success: zero max treated as one", data: binding.Data{"current": "0", "max": "0"}, wantRatio: 0, wantText: "0%", wantLabel: "XP"},
		{name: "success: level label", data: binding.Data{"current": "1", "max": "2", "level": "7"}, wantRatio: 0.5, wantText: "50%", wantLabel: "XP Lv7"},
		{name: "success: weapon label", data: binding.Data{"weapon": "Sword"}, wantRatio: 0, wantText: "0%", wantLabel: "Sword"},
		{name: "success: blood label", data: binding.Data{"blood": "Rogue"}, wantRatio: 0, wantText: "0%", wantLabel: "Rogue"},
		{name: "success: non numeric ignored", data: binding.Data{"current": "abc", "max": "2"}, wantRatio: 0, wantText: "0%", wantLabel: "XP"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c, surface, _ := setup(t, manifest.HudElementDef{ID: "xp", Type: KindProgressBar, Label: "XP", Icon: "icons/xp.txt"})
			bar := c.(*ProgressBar)

			bar.OnData(tc.data)

			assert.InDelta(t, tc.wantRatio, bar.Progress(), 1e-9)
			v := surface.Node(c.ID()).Visual
			assert.Equal(t, tc.wantText, v.Text)
			assert.Equal(t, tc.wantLabel, v.Label)
			assert.Equal(t, "XP", v.Icon)
		})
	}
}

func TestLabel_OnData_FillsPlaceholdersOrTextField(t *testing.T) {
	t.Parallel()

	c, surface, _ := setup(t, manifest.HudElementDef{ID: "bl", Type: KindLabel, Label: "{blood} ({quality}%) {missing}"})
	label := c.(*Label)
	assert.Equal(t, "{blood} ({quality}%) {missing}", surface.Node(c.ID()).Visual.Text)

	label.OnData(binding.Data{"blood": "Brute", "quality": "80"})
	assert.Equal(t, "Brute (80%) {missing}", label.Text())

	plain, plainSurface, _ := setup(t, manifest.HudElementDef{ID: "plain", Type: KindLabel, Label: "Gold"})
	plain.(*Label).OnData(binding.Data{"value": "1200"})
	assert.Equal(t, "1200", plainSurface.Node(plain.ID()).Visual.Text)
	plain.(*Label).OnData(binding.Data{"other": "x"})
	assert.Equal(t, "1200", plain.(*Label).Text())
}

func TestButton_Press_SendsCommandWithoutPolling(t *testing.T) {
	t.Parallel()

	c, surface, sender := setup(t, manifest.HudElementDef{
		ID:         "claim",
		Type:       KindButton,
		DataSource: &manifest.DataSourceDef{Command: ".quest claim", RefreshInterval: 1000},
	})
	btn := c.(*Button)
	assert.Empty(t, sender.Sent, "buttons do not poll their command")
	assert.Nil(t, btn.Binding())

	node := surface.Node(c.ID())
	assert.True(t, node.Visual.Clickable)
	assert.Equal(t, "Button", node.Visual.Label)

	node.Click()
	require.Len(t, sender.Sent, 1)
	assert.Equal(t, ".quest claim", sender.Sent[0].Text)
	assert.Nil(t, sender.Sent[0].Callback)

	c.Destroy()
	node.Click()
	assert.Len(t, sender.Sent, 1, "click handler detached on destroy")
	assert.Equal(t, 1, btn.Clicks())
}

func TestPanel_AddChild_ParentsChildNode(t *testing.T) {
	t.Parallel()

	reg := hud.NewRegistry(nil)
	require.NoError(t, RegisterBuiltins(reg))
	surface := hudtest.NewSurface()
	svc := hud.Services{Surface: surface}

	panelC, ok := reg.Create(owner, manifest.HudElementDef{ID: "box", Type: KindPanel})
	require.True(t, ok)
	child, ok := reg.Create(owner, manifest.HudElementDef{ID: "title", Type: KindLabel, Label: "Hi"})
	require.True(t, ok)
	panel := panelC.(*Panel)

	assert.ErrorIs(t, panel.AddChild(child), ErrNotBuilt)

	require.NoError(t, panel.Initialize(svc))
	require.NoError(t, child.Initialize(svc))
	require.NoError(t, panel.AddChild(child))

	assert.Equal(t, panel.ID(), surface.Node(child.ID()).Parent)
	assert.Equal(t, []string{child.ID()}, panel.Children())
	assert.Equal(t, []string{child.ID()}, surface.Node(panel.ID()).Visual.Children)
}
