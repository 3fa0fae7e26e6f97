package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/quakemap/quakemap-be/internal/services"
)

// EventHandler handles HTTP requests for the filtered marker view.
type EventHandler struct {
	service services.FeedServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.FeedServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetMarkers handles the request for the current markers. An optional
// min_magnitude query parameter filters at that threshold instead of the
// shared view-state's.
func (h *EventHandler) GetMarkers(w http.ResponseWriter, r *http.Request) {
	var override *float64
	if raw := r.URL.Query().Get("min_magnitude"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 10 {
			http.Error(w, "min_magnitude must be a number in [0, 10]", http.StatusBadRequest)
			return
		}
		override = &v
	}

	markers := h.service.Markers(override)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(markers)
}

// SetThreshold handles the request to update the shared magnitude threshold.
func (h *EventHandler) SetThreshold(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MinMagnitude float64 `json:"min_magnitude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	st := h.service.SetThreshold(body.MinMagnitude)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]float64{"min_magnitude": st.MinMagnitude})
}
