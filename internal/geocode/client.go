package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Client reverse-geocodes against a Nominatim-compatible endpoint, either a
// self-hosted instance or the public OpenStreetMap one.
type Client struct {
	baseURL *url.URL
}

// NewClient creates a client for the given endpoint base URL.
func NewClient(rawURL string) (*Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid geocode URL: %w", err)
	}
	return &Client{baseURL: parsed}, nil
}

type reverseResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// ReverseLookup resolves coordinates to a place name via the reverse
// endpoint. Zoom 14 asks for suburb-level granularity.
func (c *Client) ReverseLookup(ctx context.Context, lat, lng float64) (string, error) {
	u := c.baseURL.JoinPath("reverse")
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("zoom", "14")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse lookup failed with status %d", resp.StatusCode)
	}

	var result reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("could not unmarshal response: %w", err)
	}
	if result.Name != "" {
		return result.Name, nil
	}
	return result.DisplayName, nil
}
