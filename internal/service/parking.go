// Package service exposes the prediction engine to the HTTP layer: it
// validates input, resolves zones and events, and shapes responses.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/you/parkcast/internal/events"
	"github.com/you/parkcast/internal/prediction"
	"github.com/you/parkcast/internal/recommendation"
	"github.com/you/parkcast/internal/zones"
	"github.com/you/parkcast/models"
)

// ParkingService answers prediction and recommendation requests
type ParkingService struct {
	catalog   *zones.Catalog
	predictor *prediction.Predictor
	ranker    *recommendation.Ranker
	events    *events.Source
	log       *logrus.Entry

	defaultMaxResults  int
	defaultMaxDistance float64

	now func() time.Time
}

// Options tunes recommendation defaults
type Options struct {
	MaxRecommendations int
	MaxDistanceKm      float64
}

// NewParkingService wires the engine components together
func NewParkingService(catalog *zones.Catalog, predictor *prediction.Predictor, eventSource *events.Source, opts Options, log *logrus.Entry) *ParkingService {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = logrus.NewEntry(l)
	}
	if eventSource == nil {
		eventSource = events.NewStaticSource(nil)
	}
	if opts.MaxRecommendations <= 0 {
		opts.MaxRecommendations = recommendation.DefaultMaxResults
	}
	if opts.MaxDistanceKm <= 0 {
		opts.MaxDistanceKm = recommendation.DefaultMaxDistanceKm
	}

	return &ParkingService{
		catalog:            catalog,
		predictor:          predictor,
		ranker:             recommendation.NewRanker(catalog, predictor, log.WithField("component", "ranker")),
		events:             eventSource,
		log:                log,
		defaultMaxResults:  opts.MaxRecommendations,
		defaultMaxDistance: opts.MaxDistanceKm,
		now:                time.Now,
	}
}

// Zones returns the catalog in order
func (s *ParkingService) Zones() []models.Zone {
	return s.catalog.All()
}

// Zone returns one zone or models.ErrZoneNotFound
func (s *ParkingService) Zone(id int) (models.Zone, error) {
	z, ok := s.catalog.Zone(id)
	if !ok {
		return models.Zone{}, fmt.Errorf("%w: %d", models.ErrZoneNotFound, id)
	}
	return z, nil
}

// Events exposes the event source for listing endpoints
func (s *ParkingService) Events() *events.Source {
	return s.events
}

// PredictOccupancy validates req and predicts occupancy for its zone
func (s *ParkingService) PredictOccupancy(ctx context.Context, req models.PredictionRequest) (models.PredictionResponse, error) {
	if err := req.Validate(); err != nil {
		return models.PredictionResponse{}, err
	}
	zone, err := s.Zone(req.ZoneID)
	if err != nil {
		return models.PredictionResponse{}, err
	}

	zoneEvents := s.events.Query(req.ZoneID, req.Date)
	res, err := s.predictor.Predict(ctx, req, zoneEvents)
	if err != nil {
		return models.PredictionResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"zone_id":   req.ZoneID,
		"date":      req.Date,
		"hour":      req.Hour,
		"occupancy": res.Occupancy,
		"tier":      res.Tier,
		"used_ml":   !res.UsedFallback,
	}).Debug("prediction served")

	capacity := zone.Capacity
	if capacity <= 0 {
		capacity = models.DefaultCapacity
	}

	return models.PredictionResponse{
		PredictionID:       uuid.NewString(),
		ZoneID:             zone.ID,
		ZoneName:           zone.Name,
		AvailabilityLevel:  res.Tier,
		ConfidenceScore:    res.Confidence,
		PredictedOccupancy: res.Occupancy,
		AvailableSpaces:    models.AvailableSpaces(res.Occupancy, capacity),
		TotalSpaces:        capacity,
		Timestamp:          s.now().UTC().Format(time.RFC3339),
		UsedML:             !res.UsedFallback,
		Factors: models.PredictionFactors{
			TimeOfDay:    res.Features.TimeOfDay(),
			IsWeekend:    res.Features.IsWeekend,
			TrafficLevel: res.Features.TrafficLevel,
			EventsNearby: res.Features.EventsCount,
		},
	}, nil
}

// RecommendAlternatives ranks better zones near req.ZoneID. When the caller
// does not state the current tier, the current zone is predicted first.
func (s *ParkingService) RecommendAlternatives(ctx context.Context, req models.RecommendationsRequest) (models.RecommendationsResponse, error) {
	slot := models.PredictionRequest{ZoneID: req.ZoneID, Date: req.Date, Hour: req.Hour, DayOfWeek: req.DayOfWeek}
	if err := slot.Validate(); err != nil {
		return models.RecommendationsResponse{}, err
	}

	if req.MaxRecommendations == 0 {
		req.MaxRecommendations = s.defaultMaxResults
	}
	if req.MaxDistanceKm == 0 {
		req.MaxDistanceKm = s.defaultMaxDistance
	}
	if req.MaxRecommendations < models.MinRecommendations || req.MaxRecommendations > models.MaxRecommendations {
		return models.RecommendationsResponse{}, fmt.Errorf("%w: max_recommendations must be between %d and %d",
			models.ErrValidation, models.MinRecommendations, models.MaxRecommendations)
	}
	if req.MaxDistanceKm < models.MinSearchRadiusKm || req.MaxDistanceKm > models.MaxSearchRadiusKm {
		return models.RecommendationsResponse{}, fmt.Errorf("%w: max_distance_km must be between %.1f and %.1f",
			models.ErrValidation, models.MinSearchRadiusKm, models.MaxSearchRadiusKm)
	}

	zone, err := s.Zone(req.ZoneID)
	if err != nil {
		return models.RecommendationsResponse{}, err
	}

	dayEvents := s.events.ForDate(req.Date)

	tier := req.CurrentTier
	if tier == "" {
		current, err := s.predictor.Predict(ctx, slot, dayEvents)
		if err != nil {
			return models.RecommendationsResponse{}, err
		}
		tier = current.Tier
	}

	candidates, err := s.ranker.Recommend(ctx, recommendation.Query{
		ZoneID:        req.ZoneID,
		Date:          req.Date,
		Hour:          req.Hour,
		DayOfWeek:     req.DayOfWeek,
		CurrentTier:   tier,
		MaxResults:    req.MaxRecommendations,
		MaxDistanceKm: req.MaxDistanceKm,
		Events:        dayEvents,
	})
	if err != nil {
		return models.RecommendationsResponse{}, err
	}

	return models.RecommendationsResponse{
		ZoneID:              zone.ID,
		ZoneName:            zone.Name,
		CurrentAvailability: tier,
		Recommendations:     candidates,
		Count:               len(candidates),
		MaxDistanceKm:       req.MaxDistanceKm,
		GeneratedAt:         s.now().UTC().Format(time.RFC3339),
	}, nil
}
