package magetasks

import "fmt"

// ValidateExamples runs veil validate over the bundled example adapters.
func ValidateExamples() error {
	Out.Section("Example Adapters")
	if err := run("go", "run", MainPackage, "validate", ExampleAdapters); err != nil {
		Out.Error("Example adapters have problems")
		return err
	}
	Out.Success("Example adapters are valid")
	return nil
}

// Check runs lint, tests with the race detector, the example adapter
// validation and a build. Lint findings are reported but only test, validation
// and build failures stop the run.
func Check() error {
	Out.Title("Veil Quality Checks")
	if err := LintAll(); err != nil {
		Out.Warning(fmt.Sprintf("Lint issues found: %v", err))
	}
	for _, step := range []func() error{TestRace, ValidateExamples, Build} {
		if err := step(); err != nil {
			return err
		}
	}
	Out.Success("Quality checks complete")
	return nil
}
