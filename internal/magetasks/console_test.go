package magetasks

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinter_Output(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		print func(p *Printer)
		want  []string
	}{
		{"success: title is framed", func(p *Printer) { p.Title("Veil QA") }, []string{"Veil QA", "===="}},
		{"success: section header", func(p *Printer) { p.Section("Build") }, []string{"=== Build ==="}},
		{"success: step echoes command", func(p *Printer) { p.Step("go", "vet", "./...") }, []string{"$ go vet ./..."}},
		{"success: success line", func(p *Printer) { p.Success("built") }, []string{"✓ built"}},
		{"success: warning line", func(p *Printer) { p.Warning("no linter") }, []string{"⚠ no linter"}},
		{"success: error line", func(p *Printer) { p.Error("tests failed") }, []string{"✗ tests failed"}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tc.print(NewPrinter(&buf))
			for _, want := range tc.want {
				assert.Contains(t, buf.String(), want)
			}
			assert.NotContains(t, buf.String(), "\033[", "a buffer is not a terminal")
		})
	}
}
