package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jezper/faver/internal/config"
	"github.com/jezper/faver/internal/curator"
	"github.com/jezper/faver/internal/photoprism"
)

var momentsCmd = &cobra.Command{
	Use:   "moments",
	Short: "Cluster the library into moments and print what needs review",
	Long: `Fetch the full library, cluster it into moments using the configured
boundary detection mode, and print the moments that still contain
unreviewed photos, grouped by year and month.`,
	RunE: runMoments,
}

func init() {
	rootCmd.AddCommand(momentsCmd)

	momentsCmd.Flags().Bool("db", false, "Read events directly from PhotoPrism's MariaDB instead of the API")
	momentsCmd.Flags().Int("min", 0, "Minimum events per moment (0 = use configured value)")
	momentsCmd.Flags().String("mode", "", "Clustering mode: fixed or smart (default from config)")
}

func runMoments(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if mode := mustGetString(cmd, "mode"); mode != "" {
		cfg.Clustering.Mode = mode
	}
	if min := mustGetInt(cmd, "min"); min > 0 {
		cfg.Clustering.MinSize = min
	}

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

	places, err := newPlaceCache(cfg)
	if err != nil {
		return err
	}

	groups := c.Grouped()
	if len(groups) == 0 {
		fmt.Println("Nothing needs review.")
		return nil
	}

	total := 0
	for _, yg := range groups {
		fmt.Printf("\n%d\n", yg.Year)
		for _, mg := range yg.Months {
			fmt.Printf("  %s\n", mg.Month)
			for _, m := range mg.Moments {
				total++
				anchor := "unknown date"
				if m.Anchor != nil {
					anchor = m.Anchor.Format("Mon Jan 2 15:04")
				}
				located := ""
				if rep := m.RepresentativeLocated; rep != nil {
					located = fmt.Sprintf("  (%.4f, %.4f)", rep.Lat, rep.Lng)
					if places != nil {
						if label := places.PlaceLabel(ctx, rep.Lat, rep.Lng); label != "" {
							located = "  " + label
						}
					}
				}
				fmt.Printf("    %s  %d pending / %d total%s\n", anchor, len(m.Pending), m.TotalInWindow, located)
			}
		}
	}
	fmt.Printf("\n%d moments need review\n", total)
	return nil
}

// buildCurator wires the event source, reviewed set and settings together.
// The returned cleanup closes everything in reverse order.
func buildCurator(ctx context.Context, cfg *config.Config, useDB, showProgress bool) (*curator.Curator, func(), error) {
	source, closeSource, err := newEventSource(ctx, cfg, useDB)
	if err != nil {
		return nil, nil, err
	}

	if showProgress {
		if pp, ok := source.(*photoprism.PhotoPrism); ok {
			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetDescription("Fetching photos"),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
				progressbar.OptionSetItsString("photos"),
				progressbar.OptionSpinnerType(14),
			)
			pp.OnPage = func(fetched int) { _ = bar.Set(fetched) }
		}
	}

	set, closeSet, err := openReviewedSet(ctx, cfg)
	if err != nil {
		closeSource()
		return nil, nil, err
	}

	var mutator curator.CurationMutator
	if pp, ok := source.(*photoprism.PhotoPrism); ok {
		mutator = pp
	} else {
		mutator = logOnlyMutator{}
	}

	c := curator.New(source, mutator, set, clusteringSettings(cfg))
	cleanup := func() {
		closeSet()
		closeSource()
	}
	return c, cleanup, nil
}

// logOnlyMutator stands in when events come from the database and no API
// session exists. Curation writes go through the API only.
type logOnlyMutator struct{}

func (logOnlyMutator) SetCurated(_ context.Context, eventID string, curated bool) error {
	return fmt.Errorf("cannot set curated=%t for %s: curation requires API access, not --db", curated, eventID)
}

// signalContext returns a context cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal...")
		cancel()
	}()
	return ctx, cancel
}

// shutdownTimeout bounds graceful server shutdown in serve.go.
const shutdownTimeout = 10 * time.Second
