package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/DiNaSoR/Veil/internal/config"
	"github.com/DiNaSoR/Veil/internal/logging"
	"github.com/DiNaSoR/Veil/internal/telemetry"
	"github.com/DiNaSoR/Veil/internal/transport"
	"github.com/DiNaSoR/Veil/internal/tui"
	"github.com/DiNaSoR/Veil/pkg/layout"
	"github.com/DiNaSoR/Veil/veil"
)

const logSummaryInterval = time.Minute

func newRunCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Connect to the host and draw the HUD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := e.resolve(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return e.runHUD(ctx, cfg)
		},
	}
	f := cmd.Flags()
	f.StringVar(&e.flags.Transport, "transport", "", "host transport: stdio, process, websocket")
	f.StringVar(&e.flags.Command, "command", "", "shell command to spawn for the process transport")
	f.StringVar(&e.flags.URL, "url", "", "ws:// or wss:// url for the websocket transport")
	f.DurationVar(&e.flags.CommandTimeout, "timeout", 0, "how long a sent command waits for its response")
	f.DurationVar(&e.flags.FrameInterval, "frame", 0, "tick interval")
	f.BoolVar(&e.flags.StartVisible, "visible", false, "show the HUD on start")
	f.StringVar(&e.flags.ThemeName, "theme", "", "theme: "+fmt.Sprint(tui.ThemeNames()))
	f.BoolVar(&e.flags.NoColor, "no-color", false, "disable colors")
	f.StringVar(&e.flags.MetricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	f.BoolVar(&e.flags.NoSound, "no-sound", false, "disable notification sounds")
	f.BoolVar(&e.flags.Headless, "headless", false, "print values and notifications as plain lines")
	return cmd
}

func (e *env) runHUD(ctx context.Context, cfg *config.ResolvedConfig) error {
	stdio := cfg.Transport.Kind == config.TransportStdio
	uiOut := e.stdout
	if stdio {
		uiOut = e.stderr
	}
	headless := cfg.Headless || !isTTYWriter(uiOut)

	var fallback io.Writer
	if headless && cfg.Debug {
		fallback = e.stderr
	}
	logger, summary, closeLog, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel, Fallback: fallback})
	if err != nil {
		return err
	}
	defer closeLog()
	go summary.Run(ctx, logger, logSummaryInterval)
	logger.Info("starting veil",
		"config", cfg.ConfigPath,
		"adapters", cfg.AdaptersDir,
		"transport", cfg.Transport.Kind,
		"headless", headless)

	store, err := layout.Open(cfg.LayoutBackend, cfg.LayoutsDir, cfg.LayoutDB)
	if err != nil {
		return fmt.Errorf("open layout store: %w", err)
	}
	defer store.Close()

	tr, err := transport.Open(ctx, cfg.Transport, e.stdin, e.stdout, logger.With("component", "transport"))
	if err != nil {
		return fmt.Errorf("open transport: %w", err)
	}
	defer tr.Close()

	metrics := telemetry.New()
	if cfg.MetricsAddr != "" {
		addr, err := metrics.Serve(ctx, cfg.MetricsAddr, logger.With("component", "metrics"))
		if err != nil {
			return err
		}
		logger.Info("serving metrics", "addr", addr)
	}

	canvas := tui.NewCanvas(cfg.ReferenceW, cfg.ReferenceH)
	toasts := tui.NewToastQueue()
	rt, err := veil.New(veil.Options{
		AdaptersDir:    cfg.AdaptersDir,
		Surface:        canvas,
		Layout:         store,
		Transmitter:    tr,
		Logger:         logger,
		CommandTimeout: cfg.CommandTimeout,
		StartVisible:   cfg.StartVisible || headless,
		Disabled:       cfg.Disabled,
		Sink:           toasts,
		Sound:          cfg.Sound && !headless,
		Telemetry:      metrics,
	})
	if err != nil {
		return err
	}
	if err := rt.Init(); err != nil {
		return err
	}
	defer rt.Shutdown()

	if headless {
		width, height := termSize(uiOut)
		err = tui.NewHeadless(tui.HeadlessOptions{
			Runtime: rt,
			Canvas:  canvas,
			Toasts:  toasts,
			Out:     uiOut,
			Frame:   cfg.FrameInterval,
			Footer:  isTTYWriter(uiOut),
			Width:   width,
			Height:  height,
		}).Run(ctx, tr.Lines())
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	} else {
		model := tui.New(tui.Options{
			Runtime: rt,
			Canvas:  canvas,
			Toasts:  toasts,
			Theme:   tui.ResolveTheme(cfg),
			Lines:   tr.Lines(),
			Frame:   cfg.FrameInterval,
			Logger:  logger.With("component", "tui"),
		})
		opts := []tea.ProgramOption{tea.WithOutput(uiOut)}
		if stdio {
			opts = append(opts, tea.WithInputTTY())
		} else {
			opts = append(opts, tea.WithInput(e.stdin))
		}
		err = tui.Run(ctx, model, opts...)
	}

	logTransportEnd(logger, tr)
	return err
}

func logTransportEnd(logger *slog.Logger, tr transport.Transport) {
	if err := tr.Err(); err != nil {
		logger.Warn("host connection ended", "error", err)
		return
	}
	logger.Info("host connection closed")
}
