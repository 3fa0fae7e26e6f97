package models

// Event represents one earthquake record from the feed.
// Feed geometry follows the GeoJSON convention of [longitude, latitude, depth],
// unpacked here into named fields. Events are immutable once parsed and are
// only ever replaced wholesale by a new feed snapshot.
type Event struct {
	ID        string  `json:"id"`
	Magnitude float64 `json:"magnitude"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	DepthKM   float64 `json:"depth_km"`
	Place     string  `json:"place"`
	Time      int64   `json:"time"` // epoch milliseconds
	DetailURL string  `json:"detail_url"`
}

// FilterByMinMagnitude returns the events whose magnitude is at or above the
// threshold. The input slice is never mutated; the result is a fresh slice,
// empty (non-nil) when nothing matches so JSON callers get [] instead of null.
func FilterByMinMagnitude(events []Event, threshold float64) []Event {
	filtered := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Magnitude >= threshold {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
