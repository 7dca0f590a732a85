// Package curator ties the event source, the clustering engine and the
// reviewed-event set together into the surface consumed by the CLI and the
// web API.
package curator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jezper/faver/internal/moments"
	"github.com/jezper/faver/internal/reviewed"
)

// EventSource supplies the full event list, ascending by timestamp. Events
// with no usable timestamp are returned with a nil Timestamp, never omitted.
type EventSource interface {
	FetchAllEvents(ctx context.Context) ([]moments.Event, error)
}

// CurationMutator toggles the curated (favorite) flag on the backend.
type CurationMutator interface {
	SetCurated(ctx context.Context, eventID string, curated bool) error
}

// Settings is the clustering configuration snapshot for one rebuild pass.
type Settings struct {
	Mode        string // "fixed" or "smart"
	FixedGap    time.Duration
	Sensitivity moments.Sensitivity
	MinSize     int
}

// Curator rebuilds the moment catalog on demand and serves read-time views
// over the latest result. Rebuilds are last-write-wins: a slow pass never
// overwrites the result of a newer one, and readers never observe a torn
// catalog.
type Curator struct {
	source   EventSource
	mutator  CurationMutator
	reviewed *reviewed.Set
	settings func() Settings

	mu      sync.Mutex
	current []moments.Moment
	events  []moments.Event
	built   uint64 // generation of the installed catalog
	nextGen uint64
	minSize int
}

// New creates a curator. The settings func is called fresh on every rebuild
// so settings changes take effect on the next pass.
func New(source EventSource, mutator CurationMutator, set *reviewed.Set, settings func() Settings) *Curator {
	return &Curator{
		source:   source,
		mutator:  mutator,
		reviewed: set,
		settings: settings,
		minSize:  1,
	}
}

// Rebuild fetches a fresh event snapshot, clusters it and installs the
// result. A source failure yields an empty catalog for this pass plus the
// error for the caller to surface; the curator never retries itself.
func (c *Curator) Rebuild(ctx context.Context) ([]moments.Moment, error) {
	c.mu.Lock()
	c.nextGen++
	gen := c.nextGen
	c.mu.Unlock()

	settings := c.settings()

	events, err := c.source.FetchAllEvents(ctx)
	if err != nil {
		c.install(gen, nil, nil, settings.MinSize)
		return nil, fmt.Errorf("fetch events: %w", err)
	}

	// Inputs are captured here; a reviewed-mark landing after this point
	// is picked up by the next rebuild.
	reviewedIDs := c.reviewed.All()

	var segments [][]moments.Event
	if settings.Mode == "fixed" {
		segments = moments.SegmentFixed(events, settings.FixedGap)
	} else {
		segments = moments.SegmentSmart(events, settings.Sensitivity)
	}

	built := moments.BuildMoments(segments, reviewedIDs)
	c.install(gen, built, events, settings.MinSize)
	return built, nil
}

// install replaces the current catalog. Only a strictly newer generation
// may replace the installed one.
func (c *Curator) install(gen uint64, ms []moments.Moment, events []moments.Event, minSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen <= c.built {
		return
	}
	c.built = gen
	c.current = ms
	c.events = events
	c.minSize = minSize
}

// Moments returns the size-filtered catalog from the latest rebuild.
func (c *Curator) Moments() []moments.Moment {
	c.mu.Lock()
	ms, min := c.current, c.minSize
	c.mu.Unlock()
	return moments.FilterBySize(ms, min)
}

// Events returns the event snapshot behind the latest catalog. Used for
// map pin binning, which works on raw events rather than moments.
func (c *Curator) Events() []moments.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]moments.Event, len(c.events))
	copy(out, c.events)
	return out
}

// Grouped returns the catalog grouped by year and month, most recent first.
func (c *Curator) Grouped() []moments.YearGroup {
	return moments.GroupByMonth(c.Moments(), time.Now())
}

// Suggested returns the "most worth reviewing right now" shortlist.
func (c *Curator) Suggested() []moments.Moment {
	return moments.Suggest(c.Moments(), time.Now())
}

// MarkReviewed records that an event has been shown to the user.
func (c *Curator) MarkReviewed(eventID string) {
	c.reviewed.MarkReviewed(eventID)
}

// SetCurated toggles the favorite flag on the backend. The catalog only
// reflects the change after the next rebuild; a failed write is returned
// so the caller can tell "will show up" from "never landed".
func (c *Curator) SetCurated(ctx context.Context, eventID string, curated bool) error {
	if err := c.mutator.SetCurated(ctx, eventID, curated); err != nil {
		return fmt.Errorf("set curated %s=%t: %w", eventID, curated, err)
	}
	return nil
}
