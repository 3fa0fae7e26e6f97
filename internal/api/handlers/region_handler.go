package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/quakemap/quakemap-be/internal/models"
	"github.com/quakemap/quakemap-be/internal/services"
)

// RegionHandler handles HTTP requests for the region catalog and selection.
type RegionHandler struct {
	service services.FeedServiceProvider
}

// NewRegionHandler creates a new RegionHandler.
func NewRegionHandler(service services.FeedServiceProvider) *RegionHandler {
	return &RegionHandler{service: service}
}

// GetAll handles the request for the catalog plus the current selection.
func (h *RegionHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	resp := struct {
		Regions  []models.Region `json:"regions"`
		Selected models.Region   `json:"selected"`
	}{
		Regions:  models.RegionCatalog,
		Selected: h.service.Snapshot().Region,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Select handles the request to change the selected region. Names not in
// the catalog fall back to the default entry.
func (h *RegionHandler) Select(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	st := h.service.SelectRegion(body.Name)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(st.Region)
}
