package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/jezper/faver/internal/config"
	"github.com/jezper/faver/internal/curator"
	"github.com/jezper/faver/internal/geocode"
	"github.com/jezper/faver/internal/mariadb"
	"github.com/jezper/faver/internal/photoprism"
	"github.com/jezper/faver/internal/reviewed"
	reviewedpg "github.com/jezper/faver/internal/reviewed/postgres"
	reviewedsqlite "github.com/jezper/faver/internal/reviewed/sqlite"
)

// newAPIClient authenticates against the configured PhotoPrism instance.
func newAPIClient(ctx context.Context, cfg *config.Config) (*photoprism.PhotoPrism, error) {
	if cfg.PhotoPrism.URL == "" {
		return nil, errors.New("PHOTOPRISM_URL environment variable is required")
	}
	pp, err := photoprism.New(ctx, cfg.PhotoPrism.URL, cfg.PhotoPrism.Username, cfg.PhotoPrism.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PhotoPrism: %w", err)
	}
	return pp, nil
}

// newEventSource picks the event source: the API client by default, or a
// direct MariaDB read when requested.
func newEventSource(ctx context.Context, cfg *config.Config, useDB bool) (curator.EventSource, func(), error) {
	if useDB {
		if cfg.PhotoPrism.DatabaseURL == "" {
			return nil, nil, errors.New("PHOTOPRISM_DATABASE_URL environment variable is required for --db")
		}
		pool, err := mariadb.NewPool(cfg.PhotoPrism.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to MariaDB: %w", err)
		}
		return pool, func() { _ = pool.Close() }, nil
	}

	pp, err := newAPIClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return pp, func() { _ = pp.Logout(context.Background()) }, nil
}

// openReviewedSet opens the configured durable store and loads the set.
func openReviewedSet(ctx context.Context, cfg *config.Config) (*reviewed.Set, func(), error) {
	var store reviewed.Store
	var closeStore func()

	switch cfg.Store.Backend {
	case "postgres":
		pg, err := reviewedpg.Open(ctx, cfg.Store.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open reviewed store: %w", err)
		}
		store = pg
		closeStore = func() { _ = pg.Close() }
	case "sqlite":
		path := cfg.Store.SQLitePath
		if path == "" {
			var err error
			path, err = reviewedsqlite.DefaultPath()
			if err != nil {
				return nil, nil, err
			}
		}
		db, err := reviewedsqlite.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open reviewed store: %w", err)
		}
		store = db
		closeStore = func() { _ = db.Close() }
	default:
		return nil, nil, fmt.Errorf("unknown store backend: %s (supported: sqlite, postgres)", cfg.Store.Backend)
	}

	set, err := reviewed.Open(ctx, store)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("failed to load reviewed set: %w", err)
	}
	cleanup := func() {
		set.Close()
		closeStore()
	}
	return set, cleanup, nil
}

// newPlaceCache builds the reverse-geocode cache. Nil when no endpoint is
// configured, in which case output stays coordinate-only.
func newPlaceCache(cfg *config.Config) (*geocode.Cache, error) {
	if cfg.GeocodeURL == "" {
		return nil, nil
	}
	client, err := geocode.NewClient(cfg.GeocodeURL)
	if err != nil {
		return nil, err
	}
	return geocode.NewCache(client), nil
}

// clusteringSettings adapts the config to a per-rebuild settings snapshot.
func clusteringSettings(cfg *config.Config) func() curator.Settings {
	return func() curator.Settings {
		return curator.Settings{
			Mode:        cfg.Clustering.Mode,
			FixedGap:    cfg.FixedGap(),
			Sensitivity: cfg.Sensitivity(),
			MinSize:     cfg.Clustering.MinSize,
		}
	}
}
