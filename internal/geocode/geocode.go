// Package geocode caches reverse-geocode lookups on the caller side. The
// lookup service itself is external; the cache keeps repeated moment
// rebuilds from hammering it for the same coordinates.
package geocode

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Geocoder resolves coordinates to a human-readable place name.
type Geocoder interface {
	ReverseLookup(ctx context.Context, lat, lng float64) (string, error)
}

// Cache memoizes a Geocoder. Coordinates are bucketed to roughly 100m so
// nearby events share one entry. Lookup failures degrade to an empty label
// and are not cached, so the next rebuild retries.
type Cache struct {
	geocoder Geocoder

	mu     sync.Mutex
	places map[string]string
}

// NewCache wraps a geocoder.
func NewCache(geocoder Geocoder) *Cache {
	return &Cache{geocoder: geocoder, places: make(map[string]string)}
}

// PlaceLabel returns the normalized place name for the coordinates, empty
// when the lookup fails.
func (c *Cache) PlaceLabel(ctx context.Context, lat, lng float64) string {
	key := cacheKey(lat, lng)

	c.mu.Lock()
	if place, ok := c.places[key]; ok {
		c.mu.Unlock()
		return place
	}
	c.mu.Unlock()

	raw, err := c.geocoder.ReverseLookup(ctx, lat, lng)
	if err != nil {
		return ""
	}
	place := NormalizePlace(raw)

	c.mu.Lock()
	c.places[key] = place
	c.mu.Unlock()
	return place
}

// cacheKey buckets coordinates to three decimal places, roughly 100m.
func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("%.3f,%.3f", lat, lng)
}

// RemoveDiacritics removes diacritical marks from a string (e.g., "Plzeň" -> "Plzen").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizePlace normalizes a place name for display and deduplication.
func NormalizePlace(name string) string {
	name = RemoveDiacritics(name)
	return strings.TrimSpace(name)
}
