package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"trafficctl/internal/dashboard"
	"trafficctl/internal/reports"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Browse completed jobs and their reports",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryDownloadCommand(ctx))

	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List completed jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			records, err := client.HistoricalJobs(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch history: %w", err)
			}
			visible := dashboard.Filter(records, filter)

			out := cmd.OutOrStdout()
			if len(visible) == 0 {
				fmt.Fprintln(out, "No completed jobs")
				return nil
			}
			rows := make([][]string, 0, len(visible))
			for _, job := range visible {
				rows = append(rows, []string{
					strconv.FormatInt(job.ID, 10),
					job.JobNumber,
					job.Name,
					formatTimestampPtr(job.CompletedAt),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Job", "Name", "Completed"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Only show jobs matching this text")
	return cmd
}

func newHistoryDownloadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "download <job-id>",
		Short: "Download the newest report for a completed job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			client, err := ctx.downloadClient()
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			resolver := reports.NewResolver(client, ctx.ensureNotifier(), ctx.ensureLogger(), cfg.Paths.DownloadDir)
			saved, err := resolver.FetchLatest(cmd.Context(), jobID)
			if errors.Is(err, reports.ErrNoReports) {
				// Already announced via notification.
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", saved)
			return nil
		},
	}
}
