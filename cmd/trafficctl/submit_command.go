package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trafficctl/internal/dashboard"
	"trafficctl/internal/draft"
	"trafficctl/internal/draftstore"
	"trafficctl/internal/submit"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit the current draft as a new job",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			submitter := submit.New(client, ctx.ensureNotifier(), ctx.ensureLogger())

			var result *submit.Result
			err = ctx.withDraftStore(func(store *draftstore.Store) error {
				snap, err := store.LoadCurrent(cmd.Context())
				if err != nil {
					if errors.Is(err, draftstore.ErrNoDraft) {
						return errors.New("no draft in progress (run `trafficctl draft new` first)")
					}
					return err
				}
				d := draft.FromSnapshot(snap)

				result, err = submitter.Submit(cmd.Context(), d)
				if err != nil {
					return err
				}
				return store.ClearCurrent(cmd.Context())
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created job %d (%s)\n", result.JobID, result.JobNumber)
			if result.UploadErr != nil {
				fmt.Fprintf(out, "Warning: video upload failed, job has no videos attached: %v\n", result.UploadErr)
			} else if result.Uploaded > 0 {
				fmt.Fprintf(out, "Uploaded %d video(s)\n", result.Uploaded)
			}

			// Brief pause before showing the dashboard so the backend has
			// picked the job up for analysis.
			time.Sleep(time.Second)

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			ctrl := dashboard.NewController(client, ctx.ensureNotifier(), ctx.ensureLogger(),
				time.Duration(cfg.Dashboard.PollInterval)*time.Second)
			ctrl.SetHighlight(result.JobID)

			if watch {
				return runDashboardWatch(cmd, ctrl, "")
			}
			if err := ctrl.Refresh(cmd.Context()); err != nil {
				return err
			}
			printDashboard(cmd, ctrl, "")
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Keep polling the dashboard after submission")
	return cmd
}
