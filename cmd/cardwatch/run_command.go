package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"cardwatch/internal/daemon"
	"cardwatch/internal/logging"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var intervalMinutes int
	var once bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the monitoring loop",
		Long: "Polls the configured remote folder on an interval, hands new answer-card " +
			"scans to the correction pipeline, and records processed items so each card " +
			"is corrected exactly once.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("interval") {
				if intervalMinutes <= 0 {
					return fmt.Errorf("interval must be positive, got %d", intervalMinutes)
				}
				cfg.Monitor.IntervalMinutes = intervalMinutes
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{"stdout", filepath.Join(cfg.Paths.LogDir, "cardwatch.log")},
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			d, err := daemon.New(cfg, logger)
			if err != nil {
				return err
			}
			defer d.Close()

			if once {
				return d.RunOnce(signalCtx)
			}
			return d.Run(signalCtx)
		},
	}

	cmd.Flags().IntVarP(&intervalMinutes, "interval", "i", 0, "Minutes between checks (overrides configuration)")
	cmd.Flags().BoolVar(&once, "once", false, "Run a single check cycle and exit")
	return cmd
}
