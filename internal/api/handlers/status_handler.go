package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/quakemap/quakemap-be/internal/monitoring"
	"github.com/quakemap/quakemap-be/internal/services"
	"github.com/quakemap/quakemap-be/internal/state"
	"github.com/rs/zerolog/log"
)

// StatusHandler reports the loader phase, the current view, and host stats.
type StatusHandler struct {
	service services.FeedServiceProvider
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(service services.FeedServiceProvider) *StatusHandler {
	return &StatusHandler{service: service}
}

type statusResponse struct {
	Phase          state.Phase            `json:"phase"`
	Loading        bool                   `json:"loading"`
	Error          string                 `json:"error,omitempty"`
	TotalEvents    int                    `json:"total_events"`
	VisibleEvents  int                    `json:"visible_events"`
	MinMagnitude   float64                `json:"min_magnitude"`
	Region         string                 `json:"region"`
	LastUpdated    time.Time              `json:"last_updated,omitzero"`
	LastUpdatedAgo string                 `json:"last_updated_ago,omitempty"`
	System         monitoring.SystemStats `json:"system"`
}

// Get handles the status request.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	view := h.service.View()

	stats, err := monitoring.CollectSystemStats(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("Could not collect system stats for status")
	}

	resp := statusResponse{
		Phase:          view.Phase,
		Loading:        view.Loading,
		Error:          view.Error,
		TotalEvents:    view.TotalEvents,
		VisibleEvents:  len(view.Markers),
		MinMagnitude:   view.MinMagnitude,
		Region:         view.Region.Name,
		LastUpdated:    view.LastUpdated,
		LastUpdatedAgo: view.LastUpdatedAgo,
		System:         stats,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
