// Package mapgrid buckets located events into a uniform lat/lng grid for
// map pin placement. Deliberately independent of moment semantics: pins
// answer "where", moments answer "when".
package mapgrid

import (
	"math"
	"sort"

	"github.com/jezper/faver/internal/moments"
)

// Pin is one map marker: the centroid of all located events in a grid cell.
type Pin struct {
	Lat   float64
	Lng   float64
	Count int

	// RepresentativeID is the id of the first event binned into the cell.
	RepresentativeID string
}

// Bin groups located events into square cells of cellDegrees per side and
// returns one pin per occupied cell, ordered by descending count (count
// ties by representative id so output is stable). Events without a
// location are skipped. A non-positive cell size yields no pins.
func Bin(events []moments.Event, cellDegrees float64) []Pin {
	if cellDegrees <= 0 {
		return nil
	}

	type cell struct {
		row, col int
	}
	type bucket struct {
		sumLat, sumLng float64
		count          int
		firstID        string
	}

	buckets := make(map[cell]*bucket)
	for _, ev := range events {
		if !ev.HasLoc {
			continue
		}
		k := cell{
			row: int(math.Floor(ev.Lat / cellDegrees)),
			col: int(math.Floor(ev.Lng / cellDegrees)),
		}
		b, ok := buckets[k]
		if !ok {
			b = &bucket{firstID: ev.ID}
			buckets[k] = b
		}
		b.sumLat += ev.Lat
		b.sumLng += ev.Lng
		b.count++
	}

	pins := make([]Pin, 0, len(buckets))
	for _, b := range buckets {
		pins = append(pins, Pin{
			Lat:              b.sumLat / float64(b.count),
			Lng:              b.sumLng / float64(b.count),
			Count:            b.count,
			RepresentativeID: b.firstID,
		})
	}
	sort.Slice(pins, func(i, j int) bool {
		if pins[i].Count != pins[j].Count {
			return pins[i].Count > pins[j].Count
		}
		return pins[i].RepresentativeID < pins[j].RepresentativeID
	})
	return pins
}
