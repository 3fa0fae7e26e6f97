package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quakemap/quakemap-be/internal/models"
	"github.com/rs/zerolog/log"
)

// Client fetches the USGS earthquake summary feed.
type Client struct {
	feedURL    string
	httpClient *http.Client
}

// NewClient creates a feed client. A zero timeout leaves the underlying
// HTTP client without a deadline, matching the loader contract of a single
// uncancelled request per session.
func NewClient(feedURL string, timeout time.Duration) *Client {
	return &Client{
		feedURL: feedURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchFeed retrieves and parses the feed. It returns the parsed events and
// the number of records dropped for missing or malformed fields. Transport
// failures, non-2xx statuses, and undecodable bodies all surface as a single
// error; there is no retry.
func (c *Client) FetchFeed(ctx context.Context) ([]models.Event, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, 0, fmt.Errorf("feed API error: status %d: %s", resp.StatusCode, body)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, 0, fmt.Errorf("decode feed: %w", err)
	}

	events := make([]models.Event, 0, len(feed.Features))
	dropped := 0
	for _, f := range feed.Features {
		event, ok := parseFeature(f)
		if !ok {
			dropped++
			log.Warn().Str("feature_id", f.ID).Msg("Skipping malformed feed record")
			continue
		}
		events = append(events, event)
	}

	return events, dropped, nil
}

// parseFeature converts one GeoJSON feature into an Event. Records without
// an id, without a magnitude, or with fewer than three coordinates are
// rejected rather than turned into broken markers.
func parseFeature(f feature) (models.Event, bool) {
	if f.ID == "" || f.Properties.Mag == nil || len(f.Geometry.Coordinates) < 3 {
		return models.Event{}, false
	}

	return models.Event{
		ID:        f.ID,
		Magnitude: *f.Properties.Mag,
		Longitude: f.Geometry.Coordinates[0],
		Latitude:  f.Geometry.Coordinates[1],
		DepthKM:   f.Geometry.Coordinates[2],
		Place:     f.Properties.Place,
		Time:      f.Properties.Time,
		DetailURL: f.Properties.URL,
	}, true
}

// USGS GeoJSON feed types.

type feedResponse struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string     `json:"id"`
	Properties properties `json:"properties"`
	Geometry   geometry   `json:"geometry"`
}

type properties struct {
	Mag   *float64 `json:"mag"` // null for some review-pending records
	Place string   `json:"place"`
	Time  int64    `json:"time"`
	URL   string   `json:"url"`
}

type geometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth]
}
