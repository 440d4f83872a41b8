package magetasks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/magefile/mage/sh"
)

const golangciDisabled = "--disable=exhaustruct,varnamelen,ireturn,wrapcheck,nlreturn,gochecknoglobals,mnd,depguard,tagalign"

// LintAll runs every linter. Optional tools that are not installed are
// reported and skipped.
func LintAll() error {
	Out.Section("Lint")
	var errs []error
	if err := LintFormat(); err != nil {
		errs = append(errs, err)
	}
	if err := LintVet(); err != nil {
		errs = append(errs, err)
	}
	if err := optional(LintStaticcheck()); err != nil {
		errs = append(errs, err)
	}
	if err := optional(LintGolangci(false)); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	Out.Success("All linters passed")
	return nil
}

// LintFormat fails when gofmt would rewrite any file.
func LintFormat() error {
	Out.Step("gofmt", "-l", ".")
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if files := unformatted(out); len(files) > 0 {
		return fmt.Errorf("gofmt: %d files need formatting: %s", len(files), strings.Join(files, ", "))
	}
	return nil
}

// unformatted filters gofmt -l output, skipping paths under underscore
// directories, which the go tool ignores too.
func unformatted(out string) []string {
	var files []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "_") {
			continue
		}
		files = append(files, line)
	}
	return files
}

// LintVet runs go vet.
func LintVet() error {
	return run("go", "vet", "./...")
}

// LintStaticcheck runs staticcheck.
func LintStaticcheck() error {
	return tool("staticcheck", "honnef.co/go/tools/cmd/staticcheck@latest", "./...")
}

// LintGolangci runs golangci-lint, applying fixes when fix is set.
func LintGolangci(fix bool) error {
	args := []string{"run", golangciDisabled, "--timeout=5m"}
	if fix {
		args = append(args, "--fix")
	}
	return tool("golangci-lint", "github.com/golangci/golangci-lint/cmd/golangci-lint@latest", append(args, "./...")...)
}

func tool(name, install string, args ...string) error {
	err := run(name, args...)
	if IsCommandNotFound(err) {
		Out.Warning(fmt.Sprintf("%s not found (install: go install %s)", name, install))
	}
	return err
}

func optional(err error) error {
	if IsCommandNotFound(err) {
		return nil
	}
	return err
}

func run(name string, args ...string) error {
	Out.Step(name, args...)
	if err := sh.RunV(name, args...); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}
