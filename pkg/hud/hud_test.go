package hud_test

import (
	"errors"
	"time"

	"github.com/DiNaSoR/Veil/pkg/binding"
	"github.com/DiNaSoR/Veil/pkg/hud"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

// recorder is a minimal kind that records its hook calls.
type recorder struct {
	*hud.Base
	builds   int
	releases int
	ticks    int
	data     []binding.Data
	buildErr error
	tickErr  error
	panicOn  string
	noPoll   bool
}

func newRecorder(owner hud.Owner, def manifest.HudElementDef) *recorder {
	p := &recorder{}
	p.Base = hud.NewBase(owner, def, p)
	return p
}

func (p *recorder) Build(node hud.Node) error {
	if p.panicOn == "build" {
		panic("build exploded")
	}
	p.builds++
	node.SetVisual(hud.Visual{Kind: "recorder", Label: p.Definition().Label, Progress: -1})
	return p.buildErr
}

func (p *recorder) OnData(d binding.Data) { p.data = append(p.data, d) }

func (p *recorder) Tick(time.Duration) error {
	if p.panicOn == "tick" {
		panic("tick exploded")
	}
	p.ticks++
	return p.tickErr
}

func (p *recorder) Release() { p.releases++ }

func (p *recorder) WantsBinding() bool { return !p.noPoll }

var errBoom = errors.New("boom")

func recorderFactory(owner hud.Owner, def manifest.HudElementDef) (hud.Component, error) {
	return newRecorder(owner, def), nil
}
