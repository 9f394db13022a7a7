package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cardwatch/internal/history"
	"cardwatch/internal/logging"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show processing history summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			hist := history.Open(cfg.HistoryPath(), logging.NewNop())
			snap := hist.Snapshot()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "History file:     %s\n", cfg.HistoryPath())
			if snap.LastChecked.IsZero() {
				fmt.Fprintln(out, "Last check:       never")
			} else {
				fmt.Fprintf(out, "Last check:       %s\n", snap.LastChecked.Local().Format("2006-01-02 15:04:05"))
			}
			fmt.Fprintf(out, "Checks run:       %d\n", snap.CheckCount)
			fmt.Fprintf(out, "Processed cards:  %d\n", len(snap.ProcessedIDs))
			return nil
		},
	}
}
