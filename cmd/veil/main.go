// veil draws manifest-driven HUD overlays for a game host in the terminal.
//
// Usage:
//
//	veil run --adapters ./adapters --transport process --command "relay --stdio"
//	veil run --transport websocket --url ws://localhost:9000/chat
//	veil validate ./adapters
//	veil list
//	veil layout reset BloodCraft
//	veil version
//
// With the stdio transport the host talks on stdin/stdout and the HUD is
// drawn on stderr, reading keys from the controlling terminal. When the
// HUD terminal is not interactive, or --headless is given, component values
// and notifications are printed as plain lines instead.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/DiNaSoR/Veil/internal/config"
)

// errProblems marks a command that already reported its failures.
var errProblems = errors.New("problems found")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCommand(stdin, stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errProblems) {
			fmt.Fprintf(stderr, "veil: %v\n", err)
		}
		return 1
	}
	return 0
}

// env carries the process streams handed to every command.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	flags  config.CliFlags
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	e := &env{stdin: stdin, stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:           "veil",
		Short:         "Manifest-driven HUD overlays for game hosts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&e.flags.ConfigFile, "config", "", "config file (default .veil.yaml, then the user config dir)")
	pf.StringVar(&e.flags.AdaptersDir, "adapters", "", "adapters directory")
	pf.StringVar(&e.flags.LayoutsDir, "layouts", "", "saved layout directory")
	pf.StringVar(&e.flags.LayoutBackend, "layout-backend", "", "layout backend: file, sqlite")
	pf.BoolVar(&e.flags.Debug, "debug", false, "log at debug level")
	pf.StringVar(&e.flags.LogFile, "log-file", "", "append structured logs to this file")

	root.AddCommand(
		newRunCommand(e),
		newValidateCommand(e),
		newListCommand(e),
		newLayoutCommand(e),
		newThemesCommand(e),
		newVersionCommand(e),
	)
	return root
}

// resolve marks explicitly passed boolean flags and resolves the config.
func (e *env) resolve(cmd *cobra.Command) (*config.ResolvedConfig, error) {
	f := cmd.Flags()
	e.flags.StartVisibleSet = f.Changed("visible")
	e.flags.NoColorSet = f.Changed("no-color")
	e.flags.DebugSet = f.Changed("debug")
	e.flags.NoSoundSet = f.Changed("no-sound")
	return config.ResolveConfig(e.flags)
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termSize returns the terminal dimensions for w, defaulting to 80x24.
func termSize(w io.Writer) (width, height int) {
	width, height = 80, 24
	if f, ok := w.(*os.File); ok {
		if tw, th, err := term.GetSize(int(f.Fd())); err == nil {
			if tw > 0 {
				width = tw
			}
			if th > 0 {
				height = th
			}
		}
	}
	return width, height
}
