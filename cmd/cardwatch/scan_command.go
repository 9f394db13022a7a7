package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cardwatch/internal/classify"
	"cardwatch/internal/history"
	"cardwatch/internal/logging"
	"cardwatch/internal/remote"
)

// scan lists the remote folder and shows what the next cycle would hand to
// the pipeline, without invoking it or writing history.
func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Preview the next batch without running the pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger := logging.NewNop()
			lister, err := remote.NewDriveLister(cmd.Context(), cfg.Remote, logger)
			if err != nil {
				return fmt.Errorf("initialize remote client: %w", err)
			}

			listing, err := lister.List(cmd.Context(), cfg.Remote.FolderID)
			if err != nil {
				return fmt.Errorf("list remote folder: %w", err)
			}

			hist := history.Open(cfg.HistoryPath(), logger)
			processed := hist.Processed()
			rules := classify.FromConfig(cfg.Classify)

			pending := make(map[string]struct{})
			for _, item := range rules.Classify(listing, processed) {
				pending[item.ID] = struct{}{}
			}

			out := cmd.OutOrStdout()
			if len(listing) == 0 {
				fmt.Fprintln(out, "Remote folder is empty.")
				return nil
			}

			rows := make([][]string, 0, len(listing))
			pendingCount := 0
			for _, item := range listing {
				status := "excluded"
				if _, ok := pending[item.ID]; ok {
					status = "pending"
					pendingCount++
				} else if _, ok := processed[item.ID]; ok {
					status = "processed"
				}
				rows = append(rows, []string{
					item.Name,
					string(item.Kind),
					item.ModifiedAt.Format("2006-01-02 15:04"),
					status,
				})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Name", "Type", "Modified", "Status"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d of %d items would be sent to the pipeline.\n", pendingCount, len(listing))
			return nil
		},
	}
}
