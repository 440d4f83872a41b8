package binding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 100 * time.Millisecond

func runFrames(b *Binding, clk interface{ Advance(time.Duration) }, n int, each func()) {
	for i := 0; i < n; i++ {
		clk.Advance(frame)
		b.Update(frame)
		if each != nil {
			each()
		}
	}
}

func TestBinding_Start_ForcesInitialRefresh(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	var got []Data
	b := NewBinding(xpSource(), sender, newClock(), func(d Data) { got = append(got, d) }, nil)

	b.Start()
	require.True(t, b.Active())
	require.Len(t, sender.sent, 1)

	sender.respondLast("XP: 3/4")
	require.Len(t, got, 1)
	assert.Equal(t, "3", b.Data()["current"])
}

func TestBinding_Update_RefreshesOncePerInterval_When_CacheExpired(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	clk := newClock()
	def := xpSource()
	def.RefreshInterval = 1000
	def.CacheTime = 500
	b := NewBinding(def, sender, clk, nil, nil)

	b.Start()
	sender.respondLast("XP: 1/10")
	require.Len(t, sender.sent, 1)

	runFrames(b, clk, 9, nil)
	assert.Len(t, sender.sent, 1, "threshold not crossed yet")

	runFrames(b, clk, 1, nil)
	assert.Len(t, sender.sent, 2, "one refresh at 1000ms")
	sender.respondLast("XP: 2/10")

	answered := len(sender.sent)
	runFrames(b, clk, 20, func() {
		if len(sender.sent) > answered {
			answered = len(sender.sent)
			sender.respondLast("XP: 3/10")
		}
	})
	assert.Len(t, sender.sent, 4, "exactly one refresh per 1000ms")
}

func TestBinding_Update_SkipsRefresh_When_CacheStillValid(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	clk := newClock()
	def := xpSource()
	def.RefreshInterval = 1000
	def.CacheTime = 500
	b := NewBinding(def, sender, clk, nil, nil)

	b.Start()
	runFrames(b, clk, 9, nil)
	sender.respondLast("XP: 1/10")
	runFrames(b, clk, 1, nil)

	assert.Len(t, sender.sent, 1, "data captured 100ms ago satisfies the window")
}

func TestBinding_Update_IsNoop_When_StoppedOrManual(t *testing.T) {
	t.Parallel()
	clk := newClock()

	manualSender := &fakeSender{}
	manual := NewBinding(xpSource(), manualSender, clk, nil, nil)
	manual.Start()
	runFrames(manual, clk, 50, nil)
	assert.Len(t, manualSender.sent, 1, "refreshInterval=0 never polls")

	def := xpSource()
	def.RefreshInterval = 1000
	stoppedSender := &fakeSender{}
	stopped := NewBinding(def, stoppedSender, clk, nil, nil)
	stopped.Start()
	stopped.Stop()
	runFrames(stopped, clk, 50, nil)
	assert.Len(t, stoppedSender.sent, 1)
	assert.False(t, stopped.Active())
}

func TestBinding_ForceRefresh_BypassesIntervalAndCache(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	def := xpSource()
	def.RefreshInterval = 1000
	def.CacheTime = 60000
	b := NewBinding(def, sender, newClock(), nil, nil)

	b.Start()
	sender.respondLast("XP: 1/1")
	b.ForceRefresh()
	b.ForceRefresh()

	assert.Len(t, sender.sent, 3)
}

func TestBinding_DropsLateResponse_When_Stopped(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	var got []Data
	b := NewBinding(xpSource(), sender, newClock(), func(d Data) { got = append(got, d) }, nil)
	b.Start()
	b.Stop()

	sender.respondLast("XP: 7/9")

	assert.Empty(t, got)
	assert.Equal(t, Data{"current": "7", "max": "9"}, b.Data(), "cache still updated")
}
