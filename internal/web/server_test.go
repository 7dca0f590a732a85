package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jezper/faver/internal/curator"
	"github.com/jezper/faver/internal/moments"
	"github.com/jezper/faver/internal/reviewed"
	"github.com/jezper/faver/internal/web/handlers"
)

type fakeSource struct {
	events []moments.Event
}

func (f *fakeSource) FetchAllEvents(_ context.Context) ([]moments.Event, error) {
	return f.events, nil
}

type fakeMutator struct {
	lastID      string
	lastCurated bool
	err         error
}

func (f *fakeMutator) SetCurated(_ context.Context, id string, curated bool) error {
	f.lastID = id
	f.lastCurated = curated
	return f.err
}

type fakeLabeler struct{}

func (fakeLabeler) PlaceLabel(_ context.Context, lat, lng float64) string {
	return "Praha"
}

func testEvents() []moments.Event {
	base := time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)
	mk := func(id string, offset time.Duration, lat, lng float64) moments.Event {
		ts := base.Add(offset)
		ev := moments.Event{ID: id, Timestamp: &ts}
		if lat != 0 {
			ev.Lat = lat
			ev.Lng = lng
			ev.HasLoc = true
		}
		return ev
	}
	return []moments.Event{
		mk("a", 0, 50.08, 14.43),
		mk("b", 10*time.Minute, 50.08, 14.43),
		mk("c", 48*time.Hour, 0, 0),
	}
}

func setupTestServer(t *testing.T) (*Server, *fakeMutator) {
	return setupTestServerWithPlaces(t, nil)
}

func setupTestServerWithPlaces(t *testing.T, places handlers.PlaceLabeler) (*Server, *fakeMutator) {
	t.Helper()

	set, err := reviewed.Open(context.Background(), reviewed.NewMemoryStore())
	if err != nil {
		t.Fatalf("open reviewed set: %v", err)
	}
	t.Cleanup(set.Close)

	mutator := &fakeMutator{}
	c := curator.New(&fakeSource{events: testEvents()}, mutator, set, func() curator.Settings {
		return curator.Settings{Mode: "fixed", FixedGap: time.Hour, MinSize: 1}
	})
	return NewServer(c, places, 0, "127.0.0.1"), mutator
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := setupTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d; want 200", rec.Code)
	}
}

func TestRebuildAndListMoments(t *testing.T) {
	s, _ := setupTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/rebuild", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("rebuild status = %d; want 200", rec.Code)
	}
	var rebuild map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &rebuild); err != nil {
		t.Fatalf("decode rebuild response: %v", err)
	}
	if rebuild["moments"] != 2 {
		t.Fatalf("rebuild built %d moments; want 2", rebuild["moments"])
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/moments", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d; want 200", rec.Code)
	}
	var years []struct {
		Year   int `json:"year"`
		Months []struct {
			Month   int `json:"month"`
			Moments []struct {
				ID            string `json:"id"`
				TotalInWindow int    `json:"totalInWindow"`
				Located       bool   `json:"located"`
			} `json:"moments"`
		} `json:"months"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &years); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(years) != 1 || years[0].Year != 2025 {
		t.Fatalf("years = %+v; want one 2025 group", years)
	}
	if len(years[0].Months) != 1 || len(years[0].Months[0].Moments) != 2 {
		t.Fatalf("months = %+v; want one June group with two moments", years[0].Months)
	}
}

func TestListMomentsMinFilter(t *testing.T) {
	s, _ := setupTestServer(t)
	doRequest(t, s, http.MethodPost, "/api/v1/rebuild", "")

	rec := doRequest(t, s, http.MethodGet, "/api/v1/moments?min=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d; want 200", rec.Code)
	}
	if body := rec.Body.String(); strings.Contains(body, `"id":"c"`) {
		t.Fatalf("single-event moment survived min=2 filter: %s", body)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/moments?min=zero", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid min status = %d; want 400", rec.Code)
	}
}

func TestSuggested(t *testing.T) {
	s, _ := setupTestServer(t)
	doRequest(t, s, http.MethodPost, "/api/v1/rebuild", "")

	rec := doRequest(t, s, http.MethodGet, "/api/v1/moments/suggested", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("suggested status = %d; want 200", rec.Code)
	}
	var suggested []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &suggested); err != nil {
		t.Fatalf("decode suggested response: %v", err)
	}
	// The two-event located moment outranks the lone unlocated one.
	if len(suggested) != 2 || suggested[0].ID != "a" {
		t.Fatalf("suggested = %+v; want a first", suggested)
	}
}

func TestMarkReviewedShrinksNextRebuild(t *testing.T) {
	s, _ := setupTestServer(t)
	doRequest(t, s, http.MethodPost, "/api/v1/rebuild", "")

	for _, id := range []string{"a", "b"} {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/events/"+id+"/reviewed", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("mark reviewed status = %d; want 200", rec.Code)
		}
	}

	rec := doRequest(t, s, http.MethodPost, "/api/v1/rebuild", "")
	var rebuild map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &rebuild); err != nil {
		t.Fatalf("decode rebuild response: %v", err)
	}
	if rebuild["moments"] != 1 {
		t.Fatalf("rebuilt %d moments after review; want 1", rebuild["moments"])
	}
}

func TestSetCurated(t *testing.T) {
	s, mutator := setupTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/events/a/curated", `{"curated":true}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("set curated status = %d; want 202", rec.Code)
	}
	if mutator.lastID != "a" || !mutator.lastCurated {
		t.Fatalf("mutator saw %s=%t; want a=true", mutator.lastID, mutator.lastCurated)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/v1/events/a/curated", "not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad body status = %d; want 400", rec.Code)
	}
}

func TestSetCuratedBackendFailure(t *testing.T) {
	s, mutator := setupTestServer(t)
	mutator.err = errors.New("backend down")

	// A lost toggle must not come back as accepted.
	rec := doRequest(t, s, http.MethodPost, "/api/v1/events/a/curated", `{"curated":true}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("failed write status = %d; want 502", rec.Code)
	}
}

func TestMomentPlaceLabels(t *testing.T) {
	s, _ := setupTestServerWithPlaces(t, fakeLabeler{})
	doRequest(t, s, http.MethodPost, "/api/v1/rebuild", "")

	rec := doRequest(t, s, http.MethodGet, "/api/v1/moments/suggested", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("suggested status = %d; want 200", rec.Code)
	}
	var suggested []struct {
		ID    string `json:"id"`
		Place string `json:"place"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &suggested); err != nil {
		t.Fatalf("decode suggested response: %v", err)
	}
	if len(suggested) != 2 {
		t.Fatalf("suggested returned %d moments; want 2", len(suggested))
	}
	if suggested[0].Place != "Praha" {
		t.Fatalf("located moment place = %q; want Praha", suggested[0].Place)
	}
	// The unlocated moment never reaches the labeler.
	if suggested[1].Place != "" {
		t.Fatalf("unlocated moment place = %q; want empty", suggested[1].Place)
	}
}

func TestMapPins(t *testing.T) {
	s, _ := setupTestServer(t)
	doRequest(t, s, http.MethodPost, "/api/v1/rebuild", "")

	rec := doRequest(t, s, http.MethodGet, "/api/v1/map/pins", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("pins status = %d; want 200", rec.Code)
	}
	var pins []struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &pins); err != nil {
		t.Fatalf("decode pins response: %v", err)
	}
	if len(pins) != 1 || pins[0].Count != 2 {
		t.Fatalf("pins = %+v; want one pin covering both located events", pins)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/map/pins?cell=-1", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid cell status = %d; want 400", rec.Code)
	}
}
