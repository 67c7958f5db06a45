package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trafficctl/internal/services/traffic"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a standalone survey video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			client, err := ctx.downloadClient()
			if err != nil {
				return err
			}
			if err := client.UploadVideo(cmd.Context(), path); err != nil {
				if detail := traffic.Detail(err); detail != "" {
					ctx.ensureNotifier().Error(cmd.Context(), detail)
				}
				return fmt.Errorf("upload %s: %w", path, err)
			}
			ctx.ensureNotifier().Success(cmd.Context(), "Video uploaded successfully!")
			return nil
		},
	}
}
