package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiNaSoR/Veil/internal/logging"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSummary_CountsWarningsAndErrors_When_BelowLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	summary := logging.NewSummary(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}))
	logger := slog.New(summary).With("component", "test")

	logger.Info("ignored")
	logger.Warn("counted but not written")
	logger.Error("counted and written")
	logger.WithGroup("g").Error("also counted")

	w, e := summary.Counts()
	assert.Equal(t, int64(1), w)
	assert.Equal(t, int64(2), e)
	assert.NotContains(t, buf.String(), "counted but not written")
	assert.Contains(t, buf.String(), "counted and written")
}

func TestSummary_Run_LogsOnlyWhenCountsChange(t *testing.T) {
	t.Parallel()
	summary := logging.NewSummary(slog.NewTextHandler(&bytes.Buffer{}, nil))
	out := &syncBuffer{}
	reporter := slog.New(slog.NewTextHandler(out, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		summary.Run(ctx, reporter, 5*time.Millisecond)
		close(done)
	}()

	slog.New(summary).Warn("one")
	require.Eventually(t, func() bool { return strings.Contains(out.String(), "warnings=1") }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, strings.Count(out.String(), "log summary"))

	cancel()
	<-done
}

func TestNew_WritesToFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "veil.log")
	logger, _, closeFn, err := logging.New(logging.Options{File: path, Level: "debug"})
	require.NoError(t, err)
	logger.Debug("hello", "k", "v")
	require.NoError(t, closeFn())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "msg=hello k=v")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("chatty"))
}
