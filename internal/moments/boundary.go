package moments

import (
	"math"
	"sort"
	"time"
)

// Boundary detection thresholds shared by both strategies.
const (
	// dayGap always splits two events, regardless of sensitivity tuning.
	// A full missed calendar day is unambiguous evidence of separate
	// occasions.
	dayGap = 24 * time.Hour

	// burstFloor excludes multi-shot capture noise from the adaptive
	// statistic. Gaps under one minute never influence the percentile.
	burstFloor = 60 * time.Second

	// adaptiveDefault is used when no gap survives the burst filter.
	adaptiveDefault = 18 * time.Hour

	// adaptiveMin and adaptiveMax clamp the derived threshold. The 18h
	// ceiling is deliberate: >=24h is already covered by the day-gap rule,
	// so the adaptive rule only needs to resolve within-day pauses.
	adaptiveMin = 30 * time.Minute
	adaptiveMax = 18 * time.Hour

	// degenerateGap applies when there are too few events to derive a
	// percentile at all.
	degenerateGap = time.Hour
)

// Sensitivity tunes the location rule of the smart strategy.
type Sensitivity struct {
	// DistanceMeters is the great-circle distance beyond which two located
	// events are considered separate occasions.
	DistanceMeters float64

	// MinPause is the smallest time delta at which the location rule is
	// consulted at all. Much smaller than the time rules.
	MinPause time.Duration
}

// SegmentFixed cuts events into contiguous segments using a single static
// gap threshold. A new segment starts whenever the delta between consecutive
// timestamped events exceeds gap. Events without a timestamp never force a
// boundary and stay with their predecessor. Single pass, no look-ahead.
func SegmentFixed(events []Event, gap time.Duration) [][]Event {
	if len(events) == 0 {
		return nil
	}

	var segments [][]Event
	current := []Event{events[0]}
	prev := events[0].Timestamp

	for _, ev := range events[1:] {
		if ev.Timestamp != nil && prev != nil && ev.Timestamp.Sub(*prev) > gap {
			segments = append(segments, current)
			current = nil
		}
		current = append(current, ev)
		if ev.Timestamp != nil {
			prev = ev.Timestamp
		}
	}
	return append(segments, current)
}

// SegmentSmart cuts events into contiguous segments using three ordered
// rules evaluated per consecutive pair, first match wins:
//
//  1. delta >= 24h always splits;
//  2. delta >= an adaptively derived threshold splits;
//  3. delta >= sens.MinPause with both endpoints located and more than
//     sens.DistanceMeters apart splits.
//
// The adaptive threshold is derived once per call (see adaptiveThreshold)
// before the single segmentation pass. Fewer than two events degrade to the
// fixed strategy with a conservative one-hour gap.
func SegmentSmart(events []Event, sens Sensitivity) [][]Event {
	if len(events) < 2 {
		return SegmentFixed(events, degenerateGap)
	}

	threshold := adaptiveThreshold(events)

	var segments [][]Event
	current := []Event{events[0]}
	prev := events[0]
	prevTS := events[0].Timestamp

	for _, ev := range events[1:] {
		if ev.Timestamp != nil && prevTS != nil {
			delta := ev.Timestamp.Sub(*prevTS)
			if splitSmart(delta, threshold, prev, ev, sens) {
				segments = append(segments, current)
				current = nil
			}
		}
		current = append(current, ev)
		prev = ev
		if ev.Timestamp != nil {
			prevTS = ev.Timestamp
		}
	}
	return append(segments, current)
}

func splitSmart(delta, threshold time.Duration, a, b Event, sens Sensitivity) bool {
	if delta >= dayGap {
		return true
	}
	if delta >= threshold {
		return true
	}
	if delta >= sens.MinPause && a.HasLoc && b.HasLoc {
		return HaversineMeters(a.Lat, a.Lng, b.Lat, b.Lng) > sens.DistanceMeters
	}
	return false
}

// adaptiveThreshold derives the time threshold for the smart strategy from
// the distribution of consecutive-pair gaps: nearest-rank 90th percentile of
// all gaps of at least one minute, clamped to [30min, 18h]. Falls back to
// 18h when every gap is burst noise.
func adaptiveThreshold(events []Event) time.Duration {
	var gaps []time.Duration
	var prev *time.Time
	for i := range events {
		ts := events[i].Timestamp
		if ts == nil {
			continue
		}
		if prev != nil {
			if gap := ts.Sub(*prev); gap >= burstFloor {
				gaps = append(gaps, gap)
			}
		}
		prev = ts
	}
	if len(gaps) == 0 {
		return adaptiveDefault
	}

	sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })
	idx := int(math.Floor(float64(len(gaps)-1) * 0.90))
	threshold := gaps[idx]

	if threshold < adaptiveMin {
		return adaptiveMin
	}
	if threshold > adaptiveMax {
		return adaptiveMax
	}
	return threshold
}

const earthRadiusMeters = 6371000

// HaversineMeters returns the great-circle distance between two coordinates.
func HaversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
