package magetasks

// TestAll runs all tests.
func TestAll() error {
	Out.Section("Tests")
	if err := run("go", "test", "./..."); err != nil {
		Out.Error("Tests failed")
		return err
	}
	Out.Success("All tests passed")
	return nil
}

// TestCoverage runs tests with coverage and prints the per-function report.
func TestCoverage() error {
	Out.Section("Test Coverage")
	if err := run("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		Out.Error("Tests failed")
		return err
	}
	_ = run("go", "tool", "cover", "-func=coverage.out")
	Out.Success("Coverage report written to coverage.out")
	return nil
}

// TestRace runs tests with the race detector.
func TestRace() error {
	Out.Section("Race Detector")
	if err := run("go", "test", "-race", "./..."); err != nil {
		Out.Error("Race detector found issues")
		return err
	}
	Out.Success("No race conditions detected")
	return nil
}
