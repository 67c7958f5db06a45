package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"trafficctl/internal/dashboard"
	"trafficctl/internal/jobs"
)

func newDashboardCommand(ctx *commandContext) *cobra.Command {
	var watch bool
	var filter string
	var highlight int64

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show active jobs and their analysis status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			ctrl := dashboard.NewController(client, ctx.ensureNotifier(), ctx.ensureLogger(),
				time.Duration(cfg.Dashboard.PollInterval)*time.Second)
			if highlight != 0 {
				ctrl.SetHighlight(highlight)
			}

			if watch {
				return runDashboardWatch(cmd, ctrl, filter)
			}
			if err := ctrl.Refresh(cmd.Context()); err != nil {
				return err
			}
			printDashboard(cmd, ctrl, filter)
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Poll and re-render until interrupted")
	cmd.Flags().StringVar(&filter, "filter", "", "Only show jobs matching this text")
	cmd.Flags().Int64Var(&highlight, "highlight", 0, "Job ID to call out when it appears")
	return cmd
}

func runDashboardWatch(cmd *cobra.Command, ctrl *dashboard.Controller, filter string) error {
	watchCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := ctrl.Run(watchCtx, func(dashboard.Snapshot) {
		printDashboard(cmd, ctrl, filter)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printDashboard(cmd *cobra.Command, ctrl *dashboard.Controller, filter string) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	snap := ctrl.Snapshot()

	if snap.Err != nil {
		fmt.Fprintf(out, "Dashboard unavailable: %v\n", snap.Err)
		return
	}

	visible := dashboard.Filter(snap.Jobs, filter)
	if len(visible) == 0 {
		if filter != "" {
			fmt.Fprintf(out, "No jobs match %q\n", filter)
		} else {
			fmt.Fprintln(out, "No active jobs")
		}
		return
	}

	scrollTarget := ctrl.TakeScrollTarget()
	highlightID := ctrl.HighlightID()
	rows := make([][]string, 0, len(visible))
	for _, job := range visible {
		number := job.JobNumber
		if job.ID == highlightID {
			number = highlightCell(number, colorize)
		}
		if job.ID == scrollTarget {
			number = "> " + number
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", job.ID),
			number,
			job.Name,
			statusCell(job.Status, colorize),
			fmt.Sprintf("%d", len(job.Videos)),
			formatTimestamp(job.CreatedAt),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Job", "Name", "Status", "Videos", "Created"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	fmt.Fprintf(out, "Updated %s\n", snap.UpdatedAt.Local().Format("15:04:05"))
}

func formatTimestamp(ts jobs.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04")
}

func formatTimestampPtr(ts *jobs.Timestamp) string {
	if ts == nil {
		return "-"
	}
	return formatTimestamp(*ts)
}
