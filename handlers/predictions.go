package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/you/parkcast/models"
)

// maxRequestBody caps prediction request bodies
const maxRequestBody = 64 << 10

// requestTimeout bounds one prediction or recommendation request
const requestTimeout = 10 * time.Second

// ParkingService defines the prediction operations needed by PredictionHandler
type ParkingService interface {
	PredictOccupancy(ctx context.Context, req models.PredictionRequest) (models.PredictionResponse, error)
	RecommendAlternatives(ctx context.Context, req models.RecommendationsRequest) (models.RecommendationsResponse, error)
}

// PredictionHandler handles HTTP requests for occupancy predictions
type PredictionHandler struct {
	svc ParkingService
}

// NewPredictionHandler creates a new handler with the given service
func NewPredictionHandler(svc ParkingService) *PredictionHandler {
	return &PredictionHandler{svc: svc}
}

// Predict handles POST /api/v1/predict
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req models.PredictionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body", map[string]interface{}{"reason": err.Error()})
		return
	}

	resp, err := h.svc.PredictOccupancy(ctx, req)
	if err != nil {
		writeServiceError(w, err, "Failed to predict occupancy")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, resp)
}

// GetRecommendations handles GET /api/v1/recommendations
// Query: zone_id, date, hour, day_of_week (required); availability_level,
// max_recommendations, max_distance_km (optional)
func (h *PredictionHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	req, problems := parseRecommendationsQuery(r.URL.Query())
	if len(problems) > 0 {
		writeBadRequest(w, "Invalid query parameters", problems)
		return
	}

	resp, err := h.svc.RecommendAlternatives(ctx, req)
	if err != nil {
		writeServiceError(w, err, "Failed to compute recommendations")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, resp)
}

// parseRecommendationsQuery collects every malformed parameter instead of
// stopping at the first one
func parseRecommendationsQuery(q url.Values) (models.RecommendationsRequest, map[string]interface{}) {
	var req models.RecommendationsRequest
	problems := map[string]interface{}{}

	requireInt := func(name string, dst *int) {
		raw := q.Get(name)
		if raw == "" {
			problems[name] = "required"
			return
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			problems[name] = "must be an integer"
			return
		}
		*dst = v
	}

	requireInt("zone_id", &req.ZoneID)
	requireInt("hour", &req.Hour)
	requireInt("day_of_week", &req.DayOfWeek)

	req.Date = q.Get("date")
	if req.Date == "" {
		problems["date"] = "required"
	}

	if raw := q.Get("availability_level"); raw != "" {
		tier, ok := models.ParseTier(raw)
		if !ok {
			problems["availability_level"] = "must be High, Medium or Low"
		}
		req.CurrentTier = tier
	}

	if raw := q.Get("max_recommendations"); raw != "" {
		// zero means "use the default" to the service, so reject it here
		v, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			problems["max_recommendations"] = "must be an integer"
		case v < models.MinRecommendations || v > models.MaxRecommendations:
			problems["max_recommendations"] = fmt.Sprintf("must be between %d and %d", models.MinRecommendations, models.MaxRecommendations)
		}
		req.MaxRecommendations = v
	}

	if raw := q.Get("max_distance_km"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		switch {
		case err != nil:
			problems["max_distance_km"] = "must be a number"
		case v < models.MinSearchRadiusKm || v > models.MaxSearchRadiusKm:
			problems["max_distance_km"] = fmt.Sprintf("must be between %.1f and %.1f", models.MinSearchRadiusKm, models.MaxSearchRadiusKm)
		}
		req.MaxDistanceKm = v
	}

	return req, problems
}
