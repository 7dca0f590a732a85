package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jezper/faver/internal/config"
	"github.com/jezper/faver/internal/web"
	"github.com/jezper/faver/internal/web/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the review API server",
	Long: `Start the faver web server. The server exposes the moment catalog,
the suggestion shortlist, review/curation endpoints and map pins for a
browser-based review UI.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().Bool("db", false, "Read events directly from PhotoPrism's MariaDB instead of the API")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, cleanup, err := buildCurator(ctx, cfg, mustGetBool(cmd, "db"), false)
	if err != nil {
		return err
	}
	defer cleanup()

	// Warm the catalog so the first request doesn't serve an empty one. A
	// failure here is not fatal: the server can rebuild on demand.
	if _, err := c.Rebuild(ctx); err != nil {
		fmt.Printf("Warning: initial rebuild failed: %v\n", err)
	}

	cache, err := newPlaceCache(cfg)
	if err != nil {
		return err
	}
	// The nil check avoids handing the handlers a typed-nil interface.
	var places handlers.PlaceLabeler
	if cache != nil {
		places = cache
	}

	server := web.NewServer(c, places, port, host)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		fmt.Println("\nReceived interrupt signal...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}
