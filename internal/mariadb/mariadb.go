// Package mariadb reads events straight out of PhotoPrism's MariaDB,
// bypassing the API. Useful for large libraries where paging the search
// endpoint is slow. Read-only; curation still goes through the API.
package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/jezper/faver/internal/moments"
)

// Pool manages a MariaDB connection pool. The DSN must include
// parseTime=true so taken_at scans into time.Time.
type Pool struct {
	db *sql.DB
}

// NewPool creates a new MariaDB connection pool.
func NewPool(dsn string) (*Pool, error) {
	if dsn == "" {
		return nil, errors.New("MariaDB DSN is required")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MariaDB: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MariaDB: %w", err)
	}

	return &Pool{db: db}, nil
}

// Close closes the connection pool.
func (p *Pool) Close() error {
	if p.db != nil {
		if err := p.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}

// FetchAllEvents returns every non-deleted photo as an event, ascending by
// capture time, NULL capture times last. A NULL or zero taken_at maps to a
// nil timestamp, never to a dropped row.
func (p *Pool) FetchAllEvents(ctx context.Context) ([]moments.Event, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT photo_uid, taken_at, photo_favorite, photo_lat, photo_lng
		FROM photos
		WHERE deleted_at IS NULL
		ORDER BY taken_at IS NULL, taken_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query photos: %w", err)
	}
	defer rows.Close()

	var events []moments.Event
	for rows.Next() {
		var (
			uid      string
			takenAt  sql.NullTime
			favorite bool
			lat, lng float64
		)
		if err := rows.Scan(&uid, &takenAt, &favorite, &lat, &lng); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}

		ev := moments.Event{ID: uid, Curated: favorite}
		if takenAt.Valid && !takenAt.Time.IsZero() {
			ts := takenAt.Time
			ev.Timestamp = &ts
		}
		if lat != 0 || lng != 0 {
			ev.Lat = lat
			ev.Lng = lng
			ev.HasLoc = true
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photos: %w", err)
	}
	return events, nil
}
