package magetasks

import (
	"errors"
	"os/exec"
	"strings"
)

// IsCommandNotFound checks if the error indicates the command was not found.
// This handles exec.ErrNotFound and platform-specific string fallbacks.
func IsCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "executable file not found") ||
		strings.Contains(msg, "no such file or directory")
}
