package magetasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLDFlags_StampsVersionPackage(t *testing.T) {
	t.Parallel()
	got := LDFlags(BuildInfo{Version: "v1.2.0", Commit: "abc1234", Date: "2026-01-02T03:04:05Z"})

	assert.Equal(t,
		"-s -w -X 'github.com/DiNaSoR/Veil/internal/version.Version=v1.2.0'"+
			" -X 'github.com/DiNaSoR/Veil/internal/version.CommitHash=abc1234'"+
			" -X 'github.com/DiNaSoR/Veil/internal/version.BuildDate=2026-01-02T03:04:05Z'",
		got)
}
