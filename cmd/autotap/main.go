// Package main provides the CLI entrypoint for autotap.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Nullkernel/Auto-Clicker/internal/clicker"
	"github.com/Nullkernel/Auto-Clicker/internal/input"
	"github.com/Nullkernel/Auto-Clicker/internal/model"
	"github.com/Nullkernel/Auto-Clicker/internal/report"
)

const (
	defaultDelay    = 0.1
	defaultCPS      = 0.0
	defaultButton   = "left"
	defaultLogLevel = "info"
)

var (
	flagDelay    float64
	flagCPS      float64
	flagButton   string
	flagLogLevel string
	flagNoBanner bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "autotap",
		Short:         "Hotkey-controlled auto-clicker",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runClickerCmd,
	}

	rootCmd.Flags().Float64VarP(&flagDelay, "delay", "d", defaultDelay, "delay between clicks in seconds")
	rootCmd.Flags().Float64VarP(&flagCPS, "cps", "c", defaultCPS, "clicks per second (overrides --delay when > 0)")
	rootCmd.Flags().StringVarP(&flagButton, "button", "b", defaultButton, "mouse button to click (left|right|middle)")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", defaultLogLevel, "log verbosity (debug|info|warning|error)")
	rootCmd.Flags().BoolVar(&flagNoBanner, "no-banner", false, "skip the startup banner")

	return rootCmd
}

func runClickerCmd(cmd *cobra.Command, _ []string) error {
	if flagDelay < 0 {
		return fmt.Errorf("--delay must be >= 0")
	}
	if flagCPS < 0 {
		return fmt.Errorf("--cps must be >= 0")
	}
	button, err := model.ParseButton(flagButton)
	if err != nil {
		return err
	}
	level, err := parseLogLevel(flagLogLevel)
	if err != nil {
		return err
	}
	cfg, err := model.NewConfig(flagDelay, flagCPS, button)
	if err != nil {
		return err
	}

	if err := input.Available(); err != nil {
		return fmt.Errorf("input simulation unavailable: %w", err)
	}

	logger := newLogger(level)
	out := cmd.OutOrStdout()
	renderer := report.NewRenderer()

	if !flagNoBanner {
		if err := renderer.Banner(out); err != nil {
			return fmt.Errorf("failed to write banner: %w", err)
		}
	}
	if err := renderer.Instructions(out, cfg); err != nil {
		return fmt.Errorf("failed to write instructions: %w", err)
	}

	ctrl := clicker.New(cfg, input.NewRobot(), renderer, out, logger)
	source := input.NewHookSource(logger)

	// An interrupt runs the same graceful-exit path as the exit hotkey.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
			ctrl.RequestExit()
		case <-ctrl.Done():
		}
	}()
	go func() {
		<-ctrl.Done()
		source.Stop()
	}()

	if err := source.Run(ctrl.HandleKey); err != nil {
		return fmt.Errorf("keyboard hook failed: %w", err)
	}
	return nil
}

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid --log-level %q (expected debug|info|warning|error)", value)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}
