package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/you/parkcast/models"
)

// EventSource defines the event queries needed by EventHandler
type EventSource interface {
	Query(zoneID int, date string) []models.Event
	ByID(id string) (models.Event, error)
	GroupByDate(date string) models.EventsByDateResponse
}

// EventHandler handles HTTP requests for nearby events
type EventHandler struct {
	source EventSource
}

// NewEventHandler creates a new handler with the given event source
func NewEventHandler(source EventSource) *EventHandler {
	return &EventHandler{source: source}
}

// GetEventsResponse is the JSON response for GET /api/v1/events
type GetEventsResponse struct {
	Events []models.Event `json:"events"`
	Count  int            `json:"count"`
}

// GetEvents handles GET /api/v1/events
// Optional query filters: zone_id, date
func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	zoneID := 0
	if raw := r.URL.Query().Get("zone_id"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeBadRequest(w, "zone_id must be an integer", map[string]interface{}{"zone_id": raw})
			return
		}
		zoneID = v
	}

	date := r.URL.Query().Get("date")
	if date != "" && !validDate(date) {
		writeBadRequest(w, "date must use YYYY-MM-DD format", map[string]interface{}{"date": date})
		return
	}

	events := h.source.Query(zoneID, date)
	writeJSON(w, http.StatusOK, GetEventsResponse{Events: events, Count: len(events)})
}

// GetEventsByDate handles GET /api/v1/events/date/{date}
func (h *EventHandler) GetEventsByDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if !validDate(date) {
		writeBadRequest(w, "date must use YYYY-MM-DD format", map[string]interface{}{"date": date})
		return
	}

	writeJSON(w, http.StatusOK, h.source.GroupByDate(date))
}

// GetEvent handles GET /api/v1/events/{eventId}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	if eventID == "" {
		writeBadRequest(w, "eventId parameter is required", nil)
		return
	}

	event, err := h.source.ByID(eventID)
	if err != nil {
		writeServiceError(w, err, "Failed to retrieve event")
		return
	}

	writeJSON(w, http.StatusOK, event)
}

func validDate(s string) bool {
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}
