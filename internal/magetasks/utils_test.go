package magetasks

import (
	"errors"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCommandNotFound(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"success: exec.ErrNotFound", exec.ErrNotFound, true},
		{"success: wrapped exec.ErrNotFound", fmt.Errorf("run staticcheck: %w", exec.ErrNotFound), true},
		{"success: executable file not found", errors.New(`exec: "golangci-lint": executable file not found in $PATH`), true},
		{"success: no such file or directory", errors.New("fork/exec ./tool: no such file or directory"), true},
		{"error: nil", nil, false},
		{"error: other failure", errors.New("exit status 1"), false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, IsCommandNotFound(tc.err))
		})
	}
}
