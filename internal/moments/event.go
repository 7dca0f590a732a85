package moments

import (
	"time"

	"github.com/google/uuid"
)

// Event is a single capture record from the photo backend.
// Timestamp is nil for malformed records; such events are never dropped,
// they stay contiguous with their predecessor during segmentation.
type Event struct {
	ID        string
	Timestamp *time.Time
	Lat       float64
	Lng       float64
	HasLoc    bool
	Curated   bool
}

// Moment is a chronologically contiguous group of events that still needs
// review. Moments are rebuilt wholesale on every clustering pass and never
// mutated in place.
type Moment struct {
	// ID is derived from the first event of the underlying segment.
	ID string

	// Pending holds the events not yet reviewed, in capture order.
	Pending []Event

	// TotalInWindow counts every event in the segment, reviewed or not.
	// Size filtering uses this so a mostly-reviewed large occasion still
	// registers as large.
	TotalInWindow int

	// Anchor is the timestamp of the segment's first event, nil if that
	// event carries no timestamp.
	Anchor *time.Time

	// RepresentativeLocated is the first event in the segment with
	// coordinates, nil if none has any.
	RepresentativeLocated *Event
}

// momentID derives a stable moment identifier from a segment. A fresh UUID
// is only ever generated for an empty segment, which cannot occur when the
// segment comes from a detector.
func momentID(segment []Event) string {
	if len(segment) == 0 {
		return uuid.NewString()
	}
	return segment[0].ID
}
