package magetasks

import (
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnformatted_SkipsUnderscoreDirs(t *testing.T) {
	t.Parallel()
	out := "cmd/veil/main.go\n_scratch/x.go\n\n  internal/tui/grid.go \n"
	assert.Equal(t, []string{"cmd/veil/main.go", "internal/tui/grid.go"}, unformatted(out))
	assert.Empty(t, unformatted(""))
}

func TestOptional_IgnoresMissingTools(t *testing.T) {
	t.Parallel()
	assert.NoError(t, optional(fmt.Errorf("staticcheck failed: %w", exec.ErrNotFound)))
	assert.Error(t, optional(fmt.Errorf("exit status 1")))
	assert.NoError(t, optional(nil))
}
