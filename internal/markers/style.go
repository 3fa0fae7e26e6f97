package markers

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/quakemap/quakemap-be/internal/models"
)

// Marker radius in pixels grows linearly with magnitude.
const (
	baseRadius  = 4.0
	radiusScale = 2.0
)

// Bucket colors in ascending severity. Boundaries are closed-open except the
// top bucket: <4.0, [4.0,5.0), [5.0,6.0), >=6.0.
const (
	ColorMinor    = "#2ecc71"
	ColorModerate = "#f1c40f"
	ColorStrong   = "#e67e22"
	ColorMajor    = "#e74c3c"
)

// Marker is the renderable representation of one event: position, style,
// and the popup payload the map page shows on click.
type Marker struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Magnitude float64 `json:"magnitude"`
	Color     string  `json:"color"`
	Radius    float64 `json:"radius"`
	Popup     Popup   `json:"popup"`
}

// Popup holds the detail fields for a marker's click popup.
type Popup struct {
	Magnitude float64 `json:"magnitude"`
	Place     string  `json:"place"`
	DepthKM   float64 `json:"depth_km"`
	Time      string  `json:"time"` // UTC, RFC 1123
	Ago       string  `json:"ago"`  // e.g. "42 minutes ago"
	DetailURL string  `json:"detail_url"`
}

// Color returns the bucket color for a magnitude.
func Color(magnitude float64) string {
	switch {
	case magnitude >= 6.0:
		return ColorMajor
	case magnitude >= 5.0:
		return ColorStrong
	case magnitude >= 4.0:
		return ColorModerate
	default:
		return ColorMinor
	}
}

// Radius returns the marker radius for a magnitude. Negative magnitudes
// (valid for micro-quakes) never shrink below the base size.
func Radius(magnitude float64) float64 {
	if magnitude < 0 {
		return baseRadius
	}
	return baseRadius + magnitude*radiusScale
}

// Build styles one event as a marker.
func Build(e models.Event) Marker {
	occurred := time.UnixMilli(e.Time).UTC()
	return Marker{
		ID:        e.ID,
		Latitude:  e.Latitude,
		Longitude: e.Longitude,
		Magnitude: e.Magnitude,
		Color:     Color(e.Magnitude),
		Radius:    Radius(e.Magnitude),
		Popup: Popup{
			Magnitude: e.Magnitude,
			Place:     e.Place,
			DepthKM:   e.DepthKM,
			Time:      occurred.Format(time.RFC1123),
			Ago:       humanize.RelTime(occurred, clock.Now(), "ago", "from now"),
			DetailURL: e.DetailURL,
		},
	}
}

// BuildAll styles a list of events, preserving order.
func BuildAll(events []models.Event) []Marker {
	result := make([]Marker, 0, len(events))
	for _, e := range events {
		result = append(result, Build(e))
	}
	return result
}
