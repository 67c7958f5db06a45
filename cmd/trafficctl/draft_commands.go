package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"trafficctl/internal/draft"
	"trafficctl/internal/draftstore"
)

func newDraftCommand(ctx *commandContext) *cobra.Command {
	draftCmd := &cobra.Command{
		Use:   "draft",
		Short: "Edit the in-progress job draft",
	}

	draftCmd.AddCommand(newDraftNewCommand(ctx))
	draftCmd.AddCommand(newDraftEditCommand(ctx))
	draftCmd.AddCommand(newDraftShowCommand(ctx))
	draftCmd.AddCommand(newDraftSetCommand(ctx))
	draftCmd.AddCommand(newDraftTypesCommand(ctx))
	draftCmd.AddCommand(newDraftFilesCommand(ctx))
	draftCmd.AddCommand(newDraftLocationCommand(ctx))
	draftCmd.AddCommand(newDraftDiscardCommand(ctx))

	return draftCmd
}

// withDraft loads the current draft, applies fn, and saves the result when
// fn reports a change.
func withDraft(ctx *commandContext, fn func(*draft.Draft) (bool, error)) error {
	return ctx.withDraftStore(func(store *draftstore.Store) error {
		snap, err := store.LoadCurrent(nil)
		if err != nil {
			if errors.Is(err, draftstore.ErrNoDraft) {
				return errors.New("no draft in progress (run `trafficctl draft new` first)")
			}
			return err
		}
		d := draft.FromSnapshot(snap)
		changed, err := fn(d)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		if d.ReadOnly() {
			return errors.New("draft is read-only (opened with --view)")
		}
		return store.SaveCurrent(nil, d.Snapshot())
	})
}

func newDraftNewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a fresh job draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, lng := ctx.fallbackCoordinate()
			d := draft.New(draft.Coordinate{Lat: lat, Lng: lng})
			return ctx.withDraftStore(func(store *draftstore.Store) error {
				if err := store.SaveCurrent(cmd.Context(), d.Snapshot()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Started a new job draft")
				return nil
			})
		},
	}
}

func newDraftEditCommand(ctx *commandContext) *cobra.Command {
	var view bool

	cmd := &cobra.Command{
		Use:   "edit <job-id>",
		Short: "Hydrate a draft from an existing job",
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
			lat, lng := ctx.fallbackCoordinate()
			d := draft.FromRecord(record, view, draft.Coordinate{Lat: lat, Lng: lng})
			return ctx.withDraftStore(func(store *draftstore.Store) error {
				if err := store.SaveCurrent(cmd.Context(), d.Snapshot()); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if view {
					fmt.Fprintf(out, "Viewing job %d (read-only)\n", jobID)
				} else {
					fmt.Fprintf(out, "Editing job %d\n", jobID)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&view, "view", false, "Open the job read-only")
	return cmd
}

func newDraftShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDraft(ctx, func(d *draft.Draft) (bool, error) {
				printDraft(cmd.OutOrStdout(), d)
				return false, nil
			})
		},
	}
}

func printDraft(out io.Writer, d *draft.Draft) {
	mode := "create"
	if d.Intent() == draft.IntentUpdate {
		mode = fmt.Sprintf("update of job %d", d.SourceJobID())
	}
	if d.ReadOnly() {
		mode += " (read-only)"
	}
	fmt.Fprintf(out, "Draft %s (%s)\n", d.ID(), mode)

	lat, lng := d.CoordinateStrings()
	location := fmt.Sprintf("%s, %s (%s)", lat, lng, d.Location().State())

	rows := [][]string{
		{"Job number", d.JobNumber()},
		{"Survey hours", d.SurveyHours()},
		{"Survey types", strings.Join(d.SurveyTypes(), ", ")},
		{"Notes", d.Notes()},
		{"Location", location},
	}
	fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))

	files := d.StagedFiles()
	if len(files) == 0 {
		fmt.Fprintln(out, "No staged files")
		return
	}
	fileRows := make([][]string, 0, len(files))
	for i, path := range files {
		fileRows = append(fileRows, []string{strconv.Itoa(i), filepath.Base(path), path})
	}
	fmt.Fprintln(out, renderTable([]string{"#", "File", "Path"}, fileRows, []columnAlignment{alignRight}))
}

func newDraftSetCommand(ctx *commandContext) *cobra.Command {
	var jobNumber string
	var notes string
	var surveyHours string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update draft fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("job-number") &&
				!cmd.Flags().Changed("notes") &&
				!cmd.Flags().Changed("survey-hours") {
				return errors.New("nothing to set (use --job-number, --notes, or --survey-hours)")
			}
			return withDraft(ctx, func(d *draft.Draft) (bool, error) {
				if cmd.Flags().Changed("job-number") {
					d.SetJobNumber(jobNumber)
				}
				if cmd.Flags().Changed("notes") {
					d.SetNotes(notes)
				}
				if cmd.Flags().Changed("survey-hours") {
					d.SetSurveyHours(surveyHours)
				}
				return true, nil
			})
		},
	}

	cmd.Flags().StringVar(&jobNumber, "job-number", "", "Job number")
	cmd.Flags().StringVar(&notes, "notes", "", "Additional notes")
	cmd.Flags().StringVar(&surveyHours, "survey-hours", "", "Survey hours description")
	return cmd
}

func newDraftTypesCommand(ctx *commandContext) *cobra.Command {
	typesCmd := &cobra.Command{
		Use:   "types",
		Short: "Manage the survey type selection",
	}

	typesCmd.AddCommand(&cobra.Command{
		Use:   "toggle <type>...",
		Short: "Toggle survey types on or off",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDraft(ctx, func(d *draft.Draft) (bool, error) {
				out := cmd.OutOrStdout()
				for _, tag := range args {
					if !knownSurveyType(tag) {
						fmt.Fprintf(out, "Note: %q is not one of the standard survey types\n", tag)
					}
					if d.ToggleSurveyType(tag) {
						fmt.Fprintf(out, "Selected %s\n", tag)
					} else {
						fmt.Fprintf(out, "Deselected %s\n", tag)
					}
				}
				return true, nil
			})
		},
	})

	typesCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the selected survey types",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDraft(ctx, func(d *draft.Draft) (bool, error) {
				selected := d.SurveyTypes()
				if len(selected) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No survey types selected")
					return false, nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(selected, ", "))
				return false, nil
			})
		},
	})

	return typesCmd
}

func newDraftFilesCommand(ctx *commandContext) *cobra.Command {
	filesCmd := &cobra.Command{
		Use:   "files",
		Short: "Manage the staged video batch",
	}

	filesCmd.AddCommand(&cobra.Command{
		Use:   "add <path>...",
		Short: "Stage video files for upload",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved := make([]string, 0, len(args))
			for _, arg := range args {
				abs, err := filepath.Abs(arg)
				if err != nil {
					return fmt.Errorf("resolve %s: %w", arg, err)
				}
				resolved = append(resolved, abs)
			}
			return withDraft(ctx, func(d *draft.Draft) (bool, error) {
				d.AddFiles(resolved...)
				fmt.Fprintf(cmd.OutOrStdout(), "Staged %d file(s), %d total\n", len(resolved), len(d.StagedFiles()))
				return true, nil
			})
		},
	})

	filesCmd.AddCommand(&cobra.Command{
		Use:   "remove <index>",
		Short: "Remove a staged file by its index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			return withDraft(ctx, func(d *draft.Draft) (bool, error) {
				if !d.RemoveFile(index) {
					return false, fmt.Errorf("no staged file at index %d", index)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed file %d, %d remaining\n", index, len(d.StagedFiles()))
				return true, nil
			})
		},
	})

	return filesCmd
}

func newDraftLocationCommand(ctx *commandContext) *cobra.Command {
	locationCmd := &cobra.Command{
		Use:   "location",
		Short: "Manage the survey location",
	}

	locationCmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Start choosing a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDraft(ctx, func(d *draft.Draft) (bool, error) {
				d.RequestLocationEdit()
				lat, lng := d.CoordinateStrings()
				fmt.Fprintf(cmd.OutOrStdout(), "Editing location (candidate %s, %s)\n", lat, lng)
				return true, nil
			})
		},
	})

	locationCmd.AddCommand(&cobra.Command{
		Use:   "point <lat> <lng>",
		Short: "Pick a candidate coordinate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, latErr := strconv.ParseFloat(args[0], 64)
			lng, lngErr := strconv.ParseFloat(args[1], 64)
			if latErr != nil || lngErr != nil {
				return fmt.Errorf("invalid coordinate %q %q", args[0], args[1])
			}
			return withDraft(ctx, func(d *draft.Draft) (bool, error) {
				if !d.SelectPoint(lat, lng) {
					return false, errors.New("not editing the location (run `trafficctl draft location edit` first)")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Candidate set to %s, %s\n", args[0], args[1])
				return true, nil
			})
		},
	})

	locationCmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "Confirm the candidate coordinate",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDraft(ctx, func(d *draft.Draft) (bool, error) {
				if !d.ConfirmLocation() {
					return false, errors.New("not editing the location (run `trafficctl draft location edit` first)")
				}
				ctx.ensureNotifier().Success(cmd.Context(), "Location saved successfully!")
				return true, nil
			})
		},
	})

	locationCmd.AddCommand(&cobra.Command{
		Use:   "set <lat> <lng>",
		Short: "Type coordinates directly",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDraft(ctx, func(d *draft.Draft) (bool, error) {
				if !d.SetCoordinates(args[0], args[1]) {
					// Matches the form behavior: malformed input leaves the
					// coordinate unchanged without an error.
					fmt.Fprintln(cmd.OutOrStdout(), "Coordinates unchanged")
					return false, nil
				}
				lat, lng := d.CoordinateStrings()
				fmt.Fprintf(cmd.OutOrStdout(), "Coordinates set to %s, %s\n", lat, lng)
				return true, nil
			})
		},
	})

	return locationCmd
}

func newDraftDiscardCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "discard",
		Short: "Throw away the current draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDraftStore(func(store *draftstore.Store) error {
				if err := store.ClearCurrent(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Draft discarded")
				return nil
			})
		},
	}
}

// surveyTypeChoices are the tags offered by the job form.
var surveyTypeChoices = []string{
	"Turning Movement Count",
	"Automatic Traffic Recorder",
	"Speed Study",
	"Pedestrian Count",
	"Bicycle Count",
	"Queue Length Study",
}

func knownSurveyType(tag string) bool {
	for _, choice := range surveyTypeChoices {
		if strings.EqualFold(choice, tag) {
			return true
		}
	}
	return false
}
