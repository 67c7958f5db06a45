package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"trafficctl/internal/jobs"
)

func newJobCommand(ctx *commandContext) *cobra.Command {
	jobCmd := &cobra.Command{
		Use:   "job",
		Short: "Inspect individual jobs",
	}

	jobCmd.AddCommand(newJobShowCommand(ctx))

	return jobCmd
}

func newJobShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show a job's details and attached videos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			record, err := client.GetJob(cmd.Context(), jobID)
			if err != nil {
				return fmt.Errorf("fetch job %d: %w", jobID, err)
			}
			printJob(cmd, record)
			return nil
		},
	}
}

func printJob(cmd *cobra.Command, record jobs.JobRecord) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	rows := [][]string{
		{"Job number", record.JobNumber},
		{"Name", record.Name},
		{"Status", statusCell(record.Status, colorize)},
		{"Survey hours", record.SurveyHours},
		{"Survey types", record.SurveyTypes},
		{"Notes", record.AdditionalNotes},
		{"Location", record.Latitude + ", " + record.Longitude},
		{"Created", formatTimestamp(record.CreatedAt)},
		{"Completed", formatTimestampPtr(record.CompletedAt)},
	}
	fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))

	if len(record.Videos) == 0 {
		fmt.Fprintln(out, "No videos attached")
		return
	}
	videoRows := make([][]string, 0, len(record.Videos))
	for _, video := range record.Videos {
		videoRows = append(videoRows, []string{strconv.FormatInt(video.ID, 10), video.Filename})
	}
	fmt.Fprintln(out, renderTable([]string{"ID", "Filename"}, videoRows, []columnAlignment{alignRight}))
}
