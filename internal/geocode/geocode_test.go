package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeGeocoder struct {
	place string
	err   error
	calls int
}

func (f *fakeGeocoder) ReverseLookup(_ context.Context, lat, lng float64) (string, error) {
	f.calls++
	return f.place, f.err
}

func TestPlaceLabelCachesLookups(t *testing.T) {
	geo := &fakeGeocoder{place: "Plzeň"}
	cache := NewCache(geo)
	ctx := context.Background()

	if got := cache.PlaceLabel(ctx, 49.7384, 13.3736); got != "Plzen" {
		t.Fatalf("PlaceLabel = %q; want Plzen", got)
	}
	// Same bucket, no second lookup.
	cache.PlaceLabel(ctx, 49.7384, 13.3736)
	if geo.calls != 1 {
		t.Fatalf("geocoder called %d times; want 1", geo.calls)
	}

	// A clearly different coordinate misses the cache.
	cache.PlaceLabel(ctx, 50.0755, 14.4378)
	if geo.calls != 2 {
		t.Fatalf("geocoder called %d times; want 2", geo.calls)
	}
}

func TestPlaceLabelFailureNotCached(t *testing.T) {
	geo := &fakeGeocoder{err: errors.New("service down")}
	cache := NewCache(geo)
	ctx := context.Background()

	if got := cache.PlaceLabel(ctx, 49.0, 13.0); got != "" {
		t.Fatalf("PlaceLabel = %q on failure; want empty", got)
	}

	// Service recovers: the next call retries instead of serving the miss.
	geo.err = nil
	geo.place = "Brno"
	if got := cache.PlaceLabel(ctx, 49.0, 13.0); got != "Brno" {
		t.Fatalf("PlaceLabel after recovery = %q; want Brno", got)
	}
}

func TestClientReverseLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("format") != "jsonv2" || q.Get("lat") == "" || q.Get("lon") == "" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name":"Karlín","display_name":"Karlín, Praha, Czechia"}`)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	got, err := client.ReverseLookup(context.Background(), 50.0933, 14.4538)
	if err != nil {
		t.Fatalf("ReverseLookup failed: %v", err)
	}
	if got != "Karlín" {
		t.Fatalf("ReverseLookup = %q; want Karlín", got)
	}
}

func TestClientReverseLookupFallsBackToDisplayName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"display_name":"Praha, Czechia"}`)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	got, err := client.ReverseLookup(context.Background(), 50.0755, 14.4378)
	if err != nil {
		t.Fatalf("ReverseLookup failed: %v", err)
	}
	if got != "Praha, Czechia" {
		t.Fatalf("ReverseLookup = %q; want display name fallback", got)
	}
}

func TestClientReverseLookupServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if _, err := client.ReverseLookup(context.Background(), 50.0, 14.0); err == nil {
		t.Fatal("expected error from failing service")
	}
}

func TestNormalizePlace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Plzeň", "Plzen"},
		{"  České Budějovice ", "Ceske Budejovice"},
		{"Brno", "Brno"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := NormalizePlace(tc.in); got != tc.want {
			t.Errorf("NormalizePlace(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
