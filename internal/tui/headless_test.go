package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadless_Run_PrintsToastsAndValues(t *testing.T) {
	t.Parallel()
	h := newHarness(t, false)
	var out bytes.Buffer
	hl := NewHeadless(HeadlessOptions{Runtime: h.rt, Canvas: h.canvas, Toasts: h.toasts, Out: &out, Frame: time.Hour})

	lines := make(chan string, 2)
	lines <- "Level 4 (80%)"
	lines <- "Level up! Welcome to 5"
	close(lines)

	require.NoError(t, hl.Run(context.Background(), lines))
	got := out.String()
	assert.Contains(t, got, "XP Lv4: 80%")
	assert.Contains(t, got, "[BloodCraft] SUCCESS: Welcome to 5")
	assert.Equal(t, 1, strings.Count(got, "XP Lv4: 80%"), "unchanged values are not reprinted")
}

func TestHeadless_Run_StopsOnCancel(t *testing.T) {
	t.Parallel()
	h := newHarness(t, false)
	hl := NewHeadless(HeadlessOptions{Runtime: h.rt, Canvas: h.canvas, Toasts: h.toasts, Out: &bytes.Buffer{}, Frame: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hl.Run(ctx, make(chan string)) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("headless loop did not stop")
	}
}

func TestTermWriter_DrawFooter_CapsToThirdOfHeight(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	tw := newTermWriter(&buf, 80, 9)
	tw.DrawFooter([]string{"a", "b", "c", "d", "e"})

	assert.Equal(t, 3, tw.footerLines)
	assert.Contains(t, buf.String(), "... and 3 more")

	buf.Reset()
	tw.EraseFooter()
	assert.Equal(t, 3, strings.Count(buf.String(), "\033[2K"))
	assert.Equal(t, 0, tw.footerLines)
}

func TestTermWriter_PrintLine_TruncatesToWidth(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	tw := newTermWriter(&buf, 10, 24)
	tw.PrintLine("abcdefghijklmnop")
	assert.Equal(t, "abcdefg...\n", buf.String())
}
