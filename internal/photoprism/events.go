package photoprism

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jezper/faver/internal/moments"
)

const pageSize = 1000

// Photo is the subset of the PhotoPrism photo search result the engine
// cares about.
type Photo struct {
	UID      string  `json:"UID"`
	TakenAt  string  `json:"TakenAt"`
	Favorite bool    `json:"Favorite"`
	Lat      float64 `json:"Lat"`
	Lng      float64 `json:"Lng"`
}

// FetchAllEvents pages through the full library ordered oldest first and
// maps every photo to an event. Photos with an unparseable or zero TakenAt
// are returned with a nil timestamp rather than omitted.
func (pp *PhotoPrism) FetchAllEvents(ctx context.Context) ([]moments.Event, error) {
	var events []moments.Event
	for offset := 0; ; offset += pageSize {
		endpoint := fmt.Sprintf("photos?count=%d&offset=%d&order=oldest", pageSize, offset)
		page, err := doGetJSON[[]Photo](ctx, pp, endpoint)
		if err != nil {
			return nil, fmt.Errorf("fetch photos at offset %d: %w", offset, err)
		}
		for _, photo := range *page {
			events = append(events, photoToEvent(photo))
		}
		if pp.OnPage != nil {
			pp.OnPage(len(events))
		}
		if len(*page) < pageSize {
			return events, nil
		}
	}
}

// SetCurated toggles the favorite flag through the like endpoint.
func (pp *PhotoPrism) SetCurated(ctx context.Context, eventID string, curated bool) error {
	method := http.MethodPost
	if !curated {
		method = http.MethodDelete
	}

	req, err := http.NewRequestWithContext(ctx, method, pp.resolveURL("photos", eventID, "like"), nil)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+pp.token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("set favorite failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}
	return nil
}

func photoToEvent(photo Photo) moments.Event {
	ev := moments.Event{
		ID:      photo.UID,
		Curated: photo.Favorite,
	}
	if ts, err := time.Parse(time.RFC3339, photo.TakenAt); err == nil && !ts.IsZero() {
		ev.Timestamp = &ts
	}
	if photo.Lat != 0 || photo.Lng != 0 {
		ev.Lat = photo.Lat
		ev.Lng = photo.Lng
		ev.HasLoc = true
	}
	return ev
}

// doGetJSON performs a GET request and unmarshals the JSON response. The
// endpoint is the path after the base API URL (e.g., "photos?count=10").
func doGetJSON[T any](ctx context.Context, pp *PhotoPrism, endpoint string) (*T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pp.resolveURL(endpoint), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+pp.token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("could not unmarshal response: %w", err)
	}
	return &result, nil
}
