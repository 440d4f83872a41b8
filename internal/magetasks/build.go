package magetasks

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/magefile/mage/sh"
)

// BuildInfo is stamped into internal/version by the linker.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// CurrentBuildInfo reads the version and commit from git, falling back to
// dev/unknown outside a repository.
func CurrentBuildInfo() BuildInfo {
	return BuildInfo{
		Version: gitOutput("dev", "describe", "--tags", "--always", "--dirty", "--match=v*"),
		Commit:  gitOutput("unknown", "rev-parse", "--short", "HEAD"),
		Date:    time.Now().UTC().Format(time.RFC3339),
	}
}

// LDFlags returns the -ldflags value for info.
func LDFlags(info BuildInfo) string {
	pkg := ModulePath + "/internal/version"
	return fmt.Sprintf("-s -w -X '%s.Version=%s' -X '%s.CommitHash=%s' -X '%s.BuildDate=%s'",
		pkg, info.Version, pkg, info.Commit, pkg, info.Date)
}

// Build builds the veil binary into BinPath.
func Build() error {
	Out.Section("Build")
	args := []string{"build", "-ldflags", LDFlags(CurrentBuildInfo()), "-o", BinPath, MainPackage}
	Out.Step("go", args...)
	if err := sh.RunV("go", args...); err != nil {
		Out.Error("Build failed")
		return err
	}
	Out.Success("Built: " + BinPath)
	return nil
}

// Clean removes build artifacts.
func Clean() error {
	Out.Section("Clean")
	if err := os.RemoveAll("./bin"); err != nil {
		return err
	}
	if err := sh.Rm("coverage.out"); err != nil {
		return err
	}
	Out.Success("Cleaned build artifacts")
	return nil
}

func gitOutput(fallback string, args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil || strings.TrimSpace(out) == "" {
		return fallback
	}
	return strings.TrimSpace(out)
}
