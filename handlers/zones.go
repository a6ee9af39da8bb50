package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/you/parkcast/models"
)

// ZoneService defines the zone lookups needed by ZoneHandler
type ZoneService interface {
	Zones() []models.Zone
	Zone(id int) (models.Zone, error)
}

// ZoneHandler handles HTTP requests for zone reference data
type ZoneHandler struct {
	svc ZoneService
}

// NewZoneHandler creates a new handler with the given service
func NewZoneHandler(svc ZoneService) *ZoneHandler {
	return &ZoneHandler{svc: svc}
}

// GetZonesResponse is the JSON response for GET /api/v1/zones
type GetZonesResponse struct {
	Zones []models.Zone `json:"zones"`
	Count int           `json:"count"`
}

// GetZones handles GET /api/v1/zones
func (h *ZoneHandler) GetZones(w http.ResponseWriter, r *http.Request) {
	zones := h.svc.Zones()

	// Zones change only on reseed
	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, GetZonesResponse{Zones: zones, Count: len(zones)})
}

// GetZone handles GET /api/v1/zones/{zoneId}
func (h *ZoneHandler) GetZone(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "zoneId")
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeBadRequest(w, "zoneId must be an integer", map[string]interface{}{"zoneId": raw})
		return
	}

	zone, err := h.svc.Zone(id)
	if err != nil {
		writeServiceError(w, err, "Failed to retrieve zone")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, zone)
}
