package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jezper/faver/internal/config"
	"github.com/jezper/faver/internal/mapgrid"
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Print map pin bins for the library",
	Long: `Bin located photos into a uniform lat/lng grid and print one pin per
occupied cell. Pin binning is independent of moment clustering; it only
answers where photos were taken.`,
	RunE: runMap,
}

func init() {
	rootCmd.AddCommand(mapCmd)

	mapCmd.Flags().Bool("db", false, "Read events directly from PhotoPrism's MariaDB instead of the API")
	mapCmd.Flags().Float64("cell", 0.1, "Grid cell size in degrees")
}

func runMap(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	cell := mustGetFloat64(cmd, "cell")
	if cell <= 0 {
		return fmt.Errorf("cell size must be positive, got %f", cell)
	}

	ctx, cancel := signalContext()
	defer cancel()

	source, cleanup, err := newEventSource(ctx, cfg, mustGetBool(cmd, "db"))
	if err != nil {
		return err
	}
	defer cleanup()

	events, err := source.FetchAllEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch photos: %w", err)
	}

	pins := mapgrid.Bin(events, cell)
	if len(pins) == 0 {
		fmt.Println("No located photos.")
		return nil
	}

	fmt.Printf("%d pins (cell %.3f°):\n", len(pins), cell)
	for _, p := range pins {
		fmt.Printf("  (%.4f, %.4f)  %d photos\n", p.Lat, p.Lng, p.Count)
	}
	return nil
}
