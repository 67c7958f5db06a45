package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"trafficctl/internal/gallery"
)

func newGalleryCommand(ctx *commandContext) *cobra.Command {
	galleryCmd := &cobra.Command{
		Use:   "gallery",
		Short: "Browse the example survey assets",
	}

	galleryCmd.AddCommand(newGalleryListCommand(ctx))
	galleryCmd.AddCommand(newGalleryViewCommand(ctx))

	return galleryCmd
}

func galleryService(ctx *commandContext) (*gallery.Service, error) {
	client, err := ctx.apiClient()
	if err != nil {
		return nil, err
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return gallery.NewService(client, ctx.ensureLogger(), cfg.Gallery.PlaybackSpeed), nil
}

func newGalleryListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the example assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := galleryService(ctx)
			if err != nil {
				return err
			}
			items, err := svc.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch gallery: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No example assets")
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{
					strconv.FormatInt(item.ID, 10),
					item.Title,
					item.Category,
					string(item.Kind),
					strconv.FormatInt(item.ViewsCount, 10),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Category", "Kind", "Views"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newGalleryViewCommand(ctx *commandContext) *cobra.Command {
	var speed float64

	cmd := &cobra.Command{
		Use:   "view <asset-id>",
		Short: "Show an example asset and record the view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assetID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid asset id %q", args[0])
			}
			svc, err := galleryService(ctx)
			if err != nil {
				return err
			}
			svc.SetPlaybackSpeed(speed)
			items, err := svc.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch gallery: %w", err)
			}
			for _, item := range items {
				if item.ID != assetID {
					continue
				}
				count := svc.RecordView(cmd.Context(), assetID)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s)\n", item.Title, item.Kind)
				if item.Description != "" {
					fmt.Fprintln(out, item.Description)
				}
				fmt.Fprintf(out, "Media: %s\n", item.VideoPath)
				if item.Kind == gallery.KindVideo {
					fmt.Fprintf(out, "Playback speed: %.2gx\n", svc.PlaybackSpeed())
				}
				fmt.Fprintf(out, "Views: %d\n", count)
				return nil
			}
			return fmt.Errorf("no example asset with id %d", assetID)
		},
	}
	cmd.Flags().Float64Var(&speed, "speed", 0, "Override the video playback rate for this view")
	return cmd
}
