package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jezper/faver/internal/config"
)

var reviewCmd = &cobra.Command{
	Use:   "review <event-id>...",
	Short: "Mark photos as reviewed",
	Long: `Mark one or more photos as reviewed so they no longer count as
pending. Marking is idempotent and persists across runs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	ctx, cancel := signalContext()
	defer cancel()

	set, cleanup, err := openReviewedSet(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	marked := 0
	for _, id := range args {
		if !set.Contains(id) {
			marked++
		}
		set.MarkReviewed(id)
	}
	fmt.Printf("Marked %d photos as reviewed (%d already were)\n", marked, len(args)-marked)
	return nil
}
