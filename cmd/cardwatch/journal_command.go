package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cardwatch/internal/journal"
)

func newJournalCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recent check cycles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := journal.Open(cfg.JournalPath())
			if err != nil {
				return fmt.Errorf("open cycle journal: %w", err)
			}
			defer store.Close()

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No cycles recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.FinishedAt.Local().Format("2006-01-02 15:04:05"),
					strconv.FormatInt(rec.Cycle, 10),
					strconv.Itoa(rec.ListingCount),
					strconv.Itoa(rec.BatchSize),
					formatOutcome(rec),
					rec.Detail,
				})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Finished", "Cycle", "Listed", "Batch", "Outcome", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of cycles to show")
	return cmd
}

func formatOutcome(rec journal.Record) string {
	if rec.Outcome == journal.OutcomePipelineFailed {
		return fmt.Sprintf("%s (exit %d)", rec.Outcome, rec.ExitCode)
	}
	return string(rec.Outcome)
}
