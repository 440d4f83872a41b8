package hud_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiNaSoR/Veil/pkg/hud"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

type failureLog struct {
	failures map[string]hud.Phase
}

func (f *failureLog) ComponentFailed(id string, phase hud.Phase) {
	if f.failures == nil {
		f.failures = make(map[string]hud.Phase)
	}
	f.failures[id] = phase
}

func labelDef(id string) manifest.HudElementDef {
	return manifest.HudElementDef{ID: id, Type: "label", Label: id}
}

func TestOrchestrator_Register_RejectsDuplicateIDs(t *testing.T) {
	t.Parallel()
	o := hud.NewOrchestrator(newFixture().svc)

	require.NoError(t, o.Register(newRecorder(owner, labelDef("a"))))
	err := o.Register(newRecorder(owner, labelDef("a")))
	assert.ErrorIs(t, err, hud.ErrDuplicateComponent)
	assert.Error(t, o.Register(nil))
	assert.Equal(t, 1, o.Len())
}

func TestOrchestrator_InitializeComponents_SkipsDisabledAndContainsFailures(t *testing.T) {
	t.Parallel()
	f := newFixture()
	obs := &failureLog{}
	o := hud.NewOrchestrator(f.svc, hud.WithObserver(obs))

	ok := newRecorder(owner, labelDef("ok"))
	disabled := newRecorder(owner, labelDef("off"))
	disabled.SetEnabled(false)
	exploding := newRecorder(owner, labelDef("boom"))
	exploding.panicOn = "build"
	failing := newRecorder(owner, labelDef("fail"))
	failing.buildErr = errBoom
	for _, c := range []hud.Component{ok, disabled, exploding, failing} {
		require.NoError(t, o.Register(c))
	}

	var ready int
	assert.NotPanics(t, func() { ready = o.InitializeComponents() })

	assert.Equal(t, 1, ready)
	assert.True(t, ok.Ready())
	assert.False(t, disabled.Ready())
	assert.Equal(t, hud.PhaseInitialize, obs.failures[exploding.ID()])
	assert.Equal(t, hud.PhaseInitialize, obs.failures[failing.ID()])
}

func TestOrchestrator_Update_ContainsPerComponentFailures(t *testing.T) {
	t.Parallel()
	f := newFixture()
	obs := &failureLog{}
	o := hud.NewOrchestrator(f.svc, hud.WithObserver(obs))
	o.Init()

	first := newRecorder(owner, labelDef("first"))
	bad := newRecorder(owner, labelDef("bad"))
	last := newRecorder(owner, labelDef("last"))
	for _, c := range []hud.Component{first, bad, last} {
		require.NoError(t, o.Register(c))
	}
	o.InitializeComponents()
	bad.panicOn = "tick"

	assert.NotPanics(t, func() { o.Update(16 * time.Millisecond) })
	assert.Equal(t, 1, first.ticks)
	assert.Equal(t, 1, last.ticks)
	assert.Equal(t, hud.PhaseUpdate, obs.failures[bad.ID()])

	bad.panicOn = ""
	bad.tickErr = errBoom
	o.Update(16 * time.Millisecond)
	assert.Equal(t, 1, bad.ticks, "error-returning component stays registered")
	assert.Equal(t, 3, o.Len())
}

func TestOrchestrator_Update_IsNoop_BeforeInit(t *testing.T) {
	t.Parallel()
	f := newFixture()
	o := hud.NewOrchestrator(f.svc)
	p := newRecorder(owner, labelDef("a"))
	require.NoError(t, o.Register(p))
	o.InitializeComponents()

	o.Update(time.Second)
	assert.Equal(t, 0, p.ticks)
}

// selfRemover unregisters a sibling while the update pass runs.
type selfRemover struct {
	*recorder
	orch   *hud.Orchestrator
	target string
}

func (s *selfRemover) Update(dt time.Duration) error {
	s.orch.Unregister(s.target)
	return s.recorder.Update(dt)
}

func TestOrchestrator_Update_SkipsComponentsRemovedMidPass(t *testing.T) {
	t.Parallel()
	f := newFixture()
	o := hud.NewOrchestrator(f.svc)
	o.Init()

	victim := newRecorder(owner, labelDef("victim"))
	remover := &selfRemover{recorder: newRecorder(owner, labelDef("remover")), orch: o, target: victim.ID()}
	require.NoError(t, o.Register(remover))
	require.NoError(t, o.Register(victim))
	o.InitializeComponents()

	o.Update(time.Millisecond)

	assert.Equal(t, 1, remover.ticks)
	assert.Equal(t, 0, victim.ticks)
	assert.Equal(t, 1, o.Len())
}

func TestOrchestrator_LookupToggleAndVisibility(t *testing.T) {
	t.Parallel()
	f := newFixture()
	o := hud.NewOrchestrator(f.svc)
	p := newRecorder(owner, labelDef("a"))
	require.NoError(t, o.Register(p))

	got, ok := hud.Lookup[*recorder](o, p.ID())
	require.True(t, ok)
	assert.Same(t, p, got)
	_, ok = hud.Lookup[*selfRemover](o, p.ID())
	assert.False(t, ok)
	first, ok := hud.First[*recorder](o)
	require.True(t, ok)
	assert.Same(t, p, first)

	assert.True(t, o.Toggle(p.ID()))
	assert.False(t, p.Visible())
	assert.False(t, o.Toggle("missing"))

	o.SetVisible(false)
	assert.False(t, o.Visible())
	assert.True(t, o.ToggleVisible())
	assert.True(t, f.surface.RootVisible())
}

func TestOrchestrator_Shutdown_DestroysAll(t *testing.T) {
	t.Parallel()
	f := newFixture()
	o := hud.NewOrchestrator(f.svc)
	o.Init()
	a := newRecorder(owner, labelDef("a"))
	b := newRecorder(owner, labelDef("b"))
	require.NoError(t, o.Register(a))
	require.NoError(t, o.Register(b))
	o.InitializeComponents()

	o.Shutdown()

	assert.Equal(t, 0, o.Len())
	assert.False(t, a.Ready())
	assert.False(t, b.Ready())
	assert.Empty(t, f.surface.Nodes)
	assert.False(t, o.Initialized())
}
