//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"

	"github.com/DiNaSoR/Veil/internal/magetasks"
)

// Default target - build the binary
var Default = Build

func init() {
	if err := magetasks.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(1)
	}
}

// Build builds the veil binary
func Build() error {
	return magetasks.Build()
}

// Clean removes build artifacts
func Clean() error {
	return magetasks.Clean()
}

// Check runs lint, race tests, example validation and a build
func Check() error {
	return magetasks.Check()
}

// Validate checks the bundled example adapters
func Validate() error {
	return magetasks.ValidateExamples()
}

// Lint namespace for linting commands
type Lint mg.Namespace

// All runs all linters
func (Lint) All() error {
	return magetasks.LintAll()
}

// Format checks code formatting
func (Lint) Format() error {
	return magetasks.LintFormat()
}

// Vet runs go vet
func (Lint) Vet() error {
	return magetasks.LintVet()
}

// Staticcheck runs staticcheck
func (Lint) Staticcheck() error {
	return magetasks.LintStaticcheck()
}

// Golangci runs golangci-lint
func (Lint) Golangci() error {
	return magetasks.LintGolangci(false)
}

// Fix runs golangci-lint with auto-fixes
func (Lint) Fix() error {
	return magetasks.LintGolangci(true)
}

// Test namespace for testing commands
type Test mg.Namespace

// All runs all tests
func (Test) All() error {
	return magetasks.TestAll()
}

// Coverage runs tests with coverage
func (Test) Coverage() error {
	return magetasks.TestCoverage()
}

// Race runs tests with race detector
func (Test) Race() error {
	return magetasks.TestRace()
}
