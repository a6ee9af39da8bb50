package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/you/parkcast/internal/config"
	"github.com/you/parkcast/internal/events"
	"github.com/you/parkcast/internal/prediction"
	"github.com/you/parkcast/internal/service"
	"github.com/you/parkcast/internal/zones"
	"github.com/you/parkcast/models"
)

func newParkingService(t *testing.T, evs []models.Event) *service.ParkingService {
	t.Helper()
	cat, err := config.LoadCatalog("")
	if err != nil {
		t.Fatal(err)
	}
	catalog, err := zones.NewCatalog(cat.ModelZones())
	if err != nil {
		t.Fatal(err)
	}
	predictor := prediction.NewPredictor(catalog, nil, nil, nil)
	return service.NewParkingService(catalog, predictor, events.NewStaticSource(evs), service.Options{}, nil)
}

func newTestRouter(t *testing.T, evs []models.Event) chi.Router {
	t.Helper()
	svc := newParkingService(t, evs)

	zoneHandler := NewZoneHandler(svc)
	predictionHandler := NewPredictionHandler(svc)
	eventHandler := NewEventHandler(svc.Events())

	r := chi.NewRouter()
	r.Get("/api/v1/zones", zoneHandler.GetZones)
	r.Get("/api/v1/zones/{zoneId}", zoneHandler.GetZone)
	r.Post("/api/v1/predict", predictionHandler.Predict)
	r.Get("/api/v1/recommendations", predictionHandler.GetRecommendations)
	r.Get("/api/v1/events", eventHandler.GetEvents)
	r.Get("/api/v1/events/date/{date}", eventHandler.GetEventsByDate)
	r.Get("/api/v1/events/{eventId}", eventHandler.GetEvent)
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestZoneEndpoints(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/zones", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list GetZonesResponse
	decodeBody(t, rec, &list)
	if list.Count != 10 || len(list.Zones) != 10 {
		t.Errorf("count = %d", list.Count)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/zones/3", http.StatusOK},
		{"/api/v1/zones/99", http.StatusNotFound},
		{"/api/v1/zones/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
}

func TestPredict(t *testing.T) {
	r := newTestRouter(t, nil)

	body := `{"zone_id": 1, "date": "2026-02-10", "hour": 18, "day_of_week": 1}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %s", ct)
	}

	var resp models.PredictionResponse
	decodeBody(t, rec, &resp)
	if resp.ZoneID != 1 || resp.AvailabilityLevel != models.TierLow {
		t.Errorf("resp = %+v", resp)
	}
	if resp.PredictedOccupancy != 100 || resp.AvailableSpaces != 0 || resp.TotalSpaces != 20 {
		t.Errorf("occupancy = %v, available = %d / %d", resp.PredictedOccupancy, resp.AvailableSpaces, resp.TotalSpaces)
	}
	if resp.Factors.TrafficLevel != "high" || resp.Factors.TimeOfDay != "evening" {
		t.Errorf("factors = %+v", resp.Factors)
	}
}

func TestPredict_BadRequests(t *testing.T) {
	r := newTestRouter(t, nil)
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"zone_id": `, http.StatusBadRequest},
		{"unknown field", `{"zone_id": 1, "date": "2026-02-10", "hour": 8, "day_of_week": 1, "extra": true}`, http.StatusBadRequest},
		{"hour out of range", `{"zone_id": 1, "date": "2026-02-10", "hour": 25, "day_of_week": 1}`, http.StatusBadRequest},
		{"bad date", `{"zone_id": 1, "date": "tomorrow", "hour": 8, "day_of_week": 1}`, http.StatusBadRequest},
		{"unknown zone", `{"zone_id": 42, "date": "2026-02-10", "hour": 8, "day_of_week": 1}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			var errResp ErrorResponse
			decodeBody(t, rec, &errResp)
			if errResp.Error == "" {
				t.Error("error message should be set")
			}
		})
	}
}

func TestGetRecommendations(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	url := "/api/v1/recommendations?zone_id=1&date=2026-02-10&hour=18&day_of_week=1&availability_level=low&max_recommendations=2&max_distance_km=5"
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp models.RecommendationsResponse
	decodeBody(t, rec, &resp)
	if resp.CurrentAvailability != models.TierLow {
		t.Errorf("current = %s", resp.CurrentAvailability)
	}
	if resp.Count > 2 || resp.Count != len(resp.Recommendations) {
		t.Errorf("count = %d", resp.Count)
	}
	if resp.MaxDistanceKm != 5 {
		t.Errorf("max distance = %v", resp.MaxDistanceKm)
	}
}

func TestGetRecommendations_QueryErrors(t *testing.T) {
	r := newTestRouter(t, nil)
	tests := []struct {
		name  string
		query string
		field string
		want  int
	}{
		{"missing zone", "date=2026-02-10&hour=18&day_of_week=1", "zone_id", http.StatusBadRequest},
		{"bad hour", "zone_id=1&date=2026-02-10&hour=six&day_of_week=1", "hour", http.StatusBadRequest},
		{"bad tier", "zone_id=1&date=2026-02-10&hour=18&day_of_week=1&availability_level=full", "availability_level", http.StatusBadRequest},
		{"zero results", "zone_id=1&date=2026-02-10&hour=18&day_of_week=1&max_recommendations=0", "max_recommendations", http.StatusBadRequest},
		{"radius too large", "zone_id=1&date=2026-02-10&hour=18&day_of_week=1&max_distance_km=11", "max_distance_km", http.StatusBadRequest},
		{"hour out of range", "zone_id=1&date=2026-02-10&hour=30&day_of_week=1", "", http.StatusBadRequest},
		{"unknown zone", "zone_id=55&date=2026-02-10&hour=18&day_of_week=1", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?"+tt.query, nil))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.field == "" {
				return
			}
			var errResp ErrorResponse
			decodeBody(t, rec, &errResp)
			if _, ok := errResp.Details[tt.field]; !ok {
				t.Errorf("details %v should name %s", errResp.Details, tt.field)
			}
		})
	}
}

func TestEventEndpoints(t *testing.T) {
	evs := []models.Event{
		{ID: "EVT_1_6", Name: "Game", ZoneID: 6, Date: "2026-09-13", StartHour: 13, EndHour: 23, Impact: models.ImpactHigh},
		{ID: "EVT_1_7", Name: "Game", ZoneID: 7, Date: "2026-09-13", StartHour: 13, EndHour: 23, Impact: models.ImpactHigh},
		{ID: "EVT_2_3", Name: "Market", ZoneID: 3, Date: "2026-09-14", StartHour: 9, EndHour: 23, Impact: models.ImpactMedium},
	}
	r := newTestRouter(t, evs)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events?date=2026-09-13", nil))
	var list GetEventsResponse
	decodeBody(t, rec, &list)
	if list.Count != 2 {
		t.Errorf("events on 2026-09-13 = %d, want 2", list.Count)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events?zone_id=3", nil))
	decodeBody(t, rec, &list)
	if list.Count != 1 || list.Events[0].ID != "EVT_2_3" {
		t.Errorf("zone 3 events = %+v", list.Events)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events/date/2026-09-13", nil))
	var byDate models.EventsByDateResponse
	decodeBody(t, rec, &byDate)
	if byDate.TotalEvents != 2 || len(byDate.ZonesAffected) != 2 || byDate.ZonesAffected[0] != 6 {
		t.Errorf("by date = %+v", byDate)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/events/EVT_1_7", http.StatusOK},
		{"/api/v1/events/EVT_404", http.StatusNotFound},
		{"/api/v1/events/date/13-09-2026", http.StatusBadRequest},
		{"/api/v1/events?zone_id=x", http.StatusBadRequest},
		{"/api/v1/events?date=yesterday", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
}

type pingerStub struct{ err error }

func (p pingerStub) Ping(ctx context.Context) error { return p.err }

type mlStub struct {
	testErr error
}

func (m mlStub) Status(ctx context.Context) models.MLStatusResponse {
	return models.MLStatusResponse{Enabled: true, Message: "stub"}
}

func (m mlStub) Test(ctx context.Context) (models.MLTestResponse, error) {
	if m.testErr != nil {
		return models.MLTestResponse{}, m.testErr
	}
	return models.MLTestResponse{Success: true}, nil
}

func TestHealthEndpoints(t *testing.T) {
	tests := []struct {
		name string
		db   Pinger
		path string
		ml   mlStub
		want int
	}{
		{"db connected", pingerStub{}, "/health", mlStub{}, http.StatusOK},
		{"db down", pingerStub{err: errors.New("closed")}, "/health", mlStub{}, http.StatusServiceUnavailable},
		{"no db", nil, "/health", mlStub{}, http.StatusOK},
		{"healthz", nil, "/healthz", mlStub{}, http.StatusOK},
		{"ping", nil, "/api/ping", mlStub{}, http.StatusOK},
		{"ml status", nil, "/api/v1/ml-status", mlStub{}, http.StatusOK},
		{"ml test", nil, "/api/v1/ml-test", mlStub{}, http.StatusOK},
		{"ml test failure", nil, "/api/v1/ml-test", mlStub{testErr: fmt.Errorf("boom")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, tt.ml)
			r := chi.NewRouter()
			r.Get("/health", h.Health)
			r.Get("/healthz", h.Healthz)
			r.Get("/api/ping", h.Ping)
			r.Get("/api/v1/ml-status", h.MLStatus)
			r.Get("/api/v1/ml-test", h.MLTest)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHealth_NilPingerInterface(t *testing.T) {
	h := NewHealthHandler(nil, mlStub{})
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	if body["database"] != "not configured" {
		t.Errorf("database = %v", body["database"])
	}
}
