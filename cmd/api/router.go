package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/you/parkcast/handlers"
	"github.com/you/parkcast/internal/logging"
)

// routerDeps groups the handlers mounted on the API router
type routerDeps struct {
	CORSOrigins []string
	Log         logrus.FieldLogger

	Zones       *handlers.ZoneHandler
	Predictions *handlers.PredictionHandler
	Events      *handlers.EventHandler
	Health      *handlers.HealthHandler
}

// routes lists every endpoint for the startup banner
var routes = []struct {
	group string
	lines []string
}{
	{"Zone endpoints:", []string{
		"GET  /api/v1/zones",
		"GET  /api/v1/zones/{zoneId}",
	}},
	{"Prediction endpoints:", []string{
		"POST /api/v1/predict",
		"GET  /api/v1/recommendations",
	}},
	{"Event endpoints:", []string{
		"GET  /api/v1/events",
		"GET  /api/v1/events/date/{date}",
		"GET  /api/v1/events/{eventId}",
	}},
	{"Model diagnostics:", []string{
		"GET  /api/v1/ml-status",
		"GET  /api/v1/ml-test",
	}},
	{"Health:", []string{
		"GET  /health (with database check)",
	}},
}

func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logging.RequestLogger(deps.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{logging.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           int((12 * time.Hour).Seconds()),
	}))

	// Health check endpoint with database connectivity test
	r.Get("/health", deps.Health.Health)

	// Legacy health check endpoints
	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/api/ping", deps.Health.Ping)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/zones", deps.Zones.GetZones)
		r.Get("/zones/{zoneId}", deps.Zones.GetZone)

		r.Post("/predict", deps.Predictions.Predict)
		r.Get("/recommendations", deps.Predictions.GetRecommendations)

		r.Get("/events", deps.Events.GetEvents)
		r.Get("/events/date/{date}", deps.Events.GetEventsByDate)
		r.Get("/events/{eventId}", deps.Events.GetEvent)

		r.Get("/ml-status", deps.Health.MLStatus)
		r.Get("/ml-test", deps.Health.MLTest)
	})

	return r
}

func logRoutes(log logrus.FieldLogger, port string) {
	log.Infof("API server starting on :%s", port)
	for _, g := range routes {
		log.Info(g.group)
		for _, line := range g.lines {
			log.Info("  " + line)
		}
	}
}
