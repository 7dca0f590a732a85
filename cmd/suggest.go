package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jezper/faver/internal/config"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Print the moments most worth reviewing right now",
	Long: `Cluster the library and print the top-5 suggested moments. Ranking
rewards large windows, located moments, and moments close to their
one-year anniversary.`,
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().Bool("db", false, "Read events directly from PhotoPrism's MariaDB instead of the API")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	ctx, cancel := signalContext()
	defer cancel()

	c, cleanup, err := buildCurator(ctx, cfg, mustGetBool(cmd, "db"), true)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := c.Rebuild(ctx); err != nil {
		return fmt.Errorf("clustering failed: %w", err)
	}

	suggested := c.Suggested()
	if len(suggested) == 0 {
		fmt.Println("Nothing needs review.")
		return nil
	}

	places, err := newPlaceCache(cfg)
	if err != nil {
		return err
	}

	fmt.Println("Suggested moments:")
	for i, m := range suggested {
		anchor := "unknown date"
		if m.Anchor != nil {
			anchor = m.Anchor.Format("Jan 2, 2006")
		}
		place := ""
		if rep := m.RepresentativeLocated; rep != nil && places != nil {
			if label := places.PlaceLabel(ctx, rep.Lat, rep.Lng); label != "" {
				place = "  " + label
			}
		}
		fmt.Printf("  %d. %s  %d pending / %d total%s\n", i+1, anchor, len(m.Pending), m.TotalInWindow, place)
	}
	return nil
}
