package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DiNaSoR/Veil/pkg/bridge"
	"github.com/DiNaSoR/Veil/veil"
)

const testManifest = `{
  "modId": "bloodcraft",
  "displayName": "BloodCraft",
  "hud": {
    "elements": [
      {
        "id": "xp",
        "type": "progressBar",
        "label": "XP",
        "position": {"x": 0, "y": 0, "anchor": "topLeft"},
        "dataSource": {
          "command": ".bl xp",
          "pattern": "Level (\\d+) \\((\\d+)%\\)",
          "mapping": {"level": "$1", "percent": "$2"},
          "refreshInterval": 0
        }
      },
      {
        "id": "boost",
        "type": "button",
        "label": "Boost",
        "position": {"x": 0, "y": 0, "anchor": "bottomLeft"},
        "dataSource": {"command": ".bl boost"}
      }
    ]
  },
  "menus": [
    {"id": "main", "title": "Blood Menu", "hotkey": "Ctrl+B",
     "tabs": [
       {"id": "actions", "label": "Actions",
        "content": {"type": "actions", "actions": [
          {"label": "Heal", "command": ".bl heal"},
          {"label": "Reset", "command": ".bl reset"}
        ]}},
       {"id": "stats", "label": "Stats"}
     ]}
  ],
  "notifications": {"patterns": [{"match": "^Level up! (.+)$", "style": "success"}]}
}`

type harness struct {
	rt     *veil.Runtime
	canvas *Canvas
	toasts *ToastQueue
	sent   *[]string
}

func newHarness(t *testing.T, visible bool) harness {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "BloodCraft")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(testManifest), 0o644))

	var sent []string
	canvas := NewCanvas(1920, 1080)
	toasts := NewToastQueue()
	rt, err := veil.New(veil.Options{
		AdaptersDir:  root,
		Surface:      canvas,
		Transmitter:  bridge.TransmitFunc(func(s string) error { sent = append(sent, s); return nil }),
		StartVisible: visible,
		Sink:         toasts,
	})
	require.NoError(t, err)
	require.NoError(t, rt.Init())
	t.Cleanup(rt.Shutdown)
	return harness{rt: rt, canvas: canvas, toasts: toasts, sent: &sent}
}
