package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jezper/faver/internal/config"
)

var curateCmd = &cobra.Command{
	Use:   "curate <event-id>",
	Short: "Mark a photo as a favorite",
	Long: `Mark a photo as a favorite in PhotoPrism. A single favorite in a
moment suppresses the whole moment from review: it signals the occasion
has already been handled.`,
	Args: cobra.ExactArgs(1),
	RunE: runCurate,
}

func init() {
	rootCmd.AddCommand(curateCmd)

	curateCmd.Flags().Bool("remove", false, "Remove the favorite flag instead of setting it")
}

func runCurate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	remove := mustGetBool(cmd, "remove")

	ctx, cancel := signalContext()
	defer cancel()

	pp, err := newAPIClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer pp.Logout(ctx)

	if err := pp.SetCurated(ctx, args[0], !remove); err != nil {
		return fmt.Errorf("failed to update favorite: %w", err)
	}
	if remove {
		fmt.Printf("Removed favorite from %s\n", args[0])
	} else {
		fmt.Printf("Marked %s as favorite\n", args[0])
	}
	return nil
}
