package main

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DiNaSoR/Veil/internal/config"
	"github.com/DiNaSoR/Veil/internal/logging"
	"github.com/DiNaSoR/Veil/internal/tui"
	"github.com/DiNaSoR/Veil/internal/version"
	"github.com/DiNaSoR/Veil/pkg/adapter"
	"github.com/DiNaSoR/Veil/pkg/layout"
	"github.com/DiNaSoR/Veil/pkg/manifest"
)

func newValidateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [adapters-dir]",
		Short: "Check every adapter manifest and report problems",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.resolve(cmd)
			if err != nil {
				return err
			}
			dir := cfg.AdaptersDir
			if len(args) == 1 {
				dir = args[0]
			}
			return validateAdapters(e.stdout, dir, e.quietLogger(cfg))
		},
	}
}

func validateAdapters(out io.Writer, dir string, logger *slog.Logger) error {
	reg, warnings := adapter.Discover(dir, logger)
	failed := false
	for _, w := range warnings {
		fmt.Fprintf(out, "skip: %v\n", w)
		failed = true
	}
	for _, a := range reg.All() {
		m := a.Manifest()
		problems := manifest.Validate(m)
		errs := 0
		for _, p := range problems {
			if p.Severity == manifest.SeverityError {
				errs++
			}
		}
		if len(problems) == 0 {
			fmt.Fprintf(out, "%s: ok (%d elements, %d menus)\n", a.ID(), len(m.Hud.Elements), len(m.Menus))
			continue
		}
		fmt.Fprintf(out, "%s: %d problems\n", a.ID(), len(problems))
		for _, p := range problems {
			fmt.Fprintf(out, "  %s\n", p)
		}
		if errs > 0 {
			failed = true
		}
	}
	if reg.Len() == 0 && len(warnings) == 0 {
		fmt.Fprintf(out, "no adapters in %s\n", dir)
	}
	if failed {
		return errProblems
	}
	return nil
}

func newListCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discovered adapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := e.resolve(cmd)
			if err != nil {
				return err
			}
			reg, _ := adapter.Discover(cfg.AdaptersDir, e.quietLogger(cfg))
			tw := tabwriter.NewWriter(e.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tVERSION\tELEMENTS\tMENUS")
			for _, a := range reg.All() {
				m := a.Manifest()
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", a.ID(), a.DisplayName(), m.ModVersion, len(m.Hud.Elements), len(m.Menus))
			}
			return tw.Flush()
		},
	}
}

func newLayoutCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect or reset saved HUD layout",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List adapters with saved layout",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return e.withStore(cmd, func(store layout.Store) error {
					ids, err := store.Adapters()
					if err != nil {
						return err
					}
					for _, id := range ids {
						fmt.Fprintln(e.stdout, id)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "reset <adapter-id>",
			Short: "Forget saved positions and sizes for one adapter",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return e.withStore(cmd, func(store layout.Store) error {
					if err := store.Reset(args[0]); err != nil {
						return err
					}
					fmt.Fprintf(e.stdout, "reset layout for %s\n", args[0])
					return nil
				})
			},
		},
	)
	return cmd
}

func (e *env) withStore(cmd *cobra.Command, fn func(layout.Store) error) error {
	cfg, err := e.resolve(cmd)
	if err != nil {
		return err
	}
	store, err := layout.Open(cfg.LayoutBackend, cfg.LayoutsDir, cfg.LayoutDB)
	if err != nil {
		return fmt.Errorf("open layout store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newThemesCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List built-in themes",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			for _, name := range tui.ThemeNames() {
				fmt.Fprintln(e.stdout, name)
			}
			return nil
		},
	}
}

func newVersionCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			fmt.Fprintf(e.stdout, "veil %s (commit %s, built %s)\n", version.Version, version.CommitHash, version.BuildDate)
			return nil
		},
	}
}

// quietLogger writes discovery logs to stderr under --debug and discards
// them otherwise; the one-shot commands print their own results.
func (e *env) quietLogger(cfg *config.ResolvedConfig) *slog.Logger {
	var w io.Writer
	if cfg.Debug {
		w = e.stderr
	}
	logger, _, _, _ := logging.New(logging.Options{Level: cfg.LogLevel, Fallback: w})
	return logger
}
