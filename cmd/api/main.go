package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/you/parkcast/handlers"
	"github.com/you/parkcast/internal/config"
	"github.com/you/parkcast/internal/events"
	"github.com/you/parkcast/internal/history"
	"github.com/you/parkcast/internal/logging"
	"github.com/you/parkcast/internal/mlclient"
	"github.com/you/parkcast/internal/prediction"
	"github.com/you/parkcast/internal/service"
	"github.com/you/parkcast/internal/zones"
)

func main() {
	// ═══════════════════════════════════════════════════════
	// PHASE 1: Configuration
	// ═══════════════════════════════════════════════════════
	// Load base .env first, then .env.local (which overrides for local development)
	config.LoadEnvFiles(".")
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	log := logging.Component(logger, "api")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalogFile, err := config.LoadCatalog(cfg.ZonesFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to load zone catalog")
	}

	// ═══════════════════════════════════════════════════════
	// PHASE 2: Zone reference data
	// ═══════════════════════════════════════════════════════
	var pinger handlers.Pinger
	zoneList := catalogFile.ModelZones()

	store, err := openZoneStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Zone store unavailable, serving zones from catalog file")
	} else {
		defer store.Close()
		pinger = store

		stored, err := loadZones(ctx, store, catalogFile, log)
		if err != nil {
			log.WithError(err).Warn("Failed to read zones from database, serving zones from catalog file")
		} else {
			zoneList = stored
		}
	}

	catalog, err := zones.NewCatalog(zoneList)
	if err != nil {
		log.WithError(err).Fatal("Invalid zone reference data")
	}

	// ═══════════════════════════════════════════════════════
	// PHASE 3: Datasets and model
	// ═══════════════════════════════════════════════════════
	hist := history.NewDataset(cfg.HistoryFile, logging.Component(logger, "history"))
	_ = hist.Load() // logs its own outcome once
	eventSource := events.NewSource(cfg.EventsFile, catalogFile.EventZoneAliases, logging.Component(logger, "events"))
	if err := eventSource.Err(); err != nil {
		log.WithError(err).Warn("Events dataset unavailable, predictions run without events")
	}

	var (
		model     prediction.Model
		inspector service.ModelInspector
	)
	if cfg.UseMLModel {
		client := mlclient.New(mlclient.Options{
			BaseURL:   cfg.MLServiceURL,
			ModelPath: cfg.MLModelPath,
			DataDir:   cfg.MLDataDir,
			Timeout:   cfg.MLTimeout,
			Log:       logging.Component(logger, "mlclient"),
		})
		model, inspector = client, client
	}

	predictor := prediction.NewPredictor(catalog, model, hist, logging.Component(logger, "predictor"))
	if predictor.ModelAvailable(ctx) {
		log.WithField("service_url", cfg.MLServiceURL).Info("Trained model loaded")
	} else {
		log.WithField("use_ml_model", cfg.UseMLModel).Warn("Trained model not available, using rule-based estimates")
	}

	parking := service.NewParkingService(catalog, predictor, eventSource, service.Options{
		MaxRecommendations: cfg.MaxRecommendations,
		MaxDistanceKm:      cfg.MaxDistanceKm,
	}, logging.Component(logger, "parking"))
	mlStatus := service.NewMLStatusService(cfg.UseMLModel, inspector, hist, catalog, parking)

	// ═══════════════════════════════════════════════════════
	// PHASE 4: HTTP server
	// ═══════════════════════════════════════════════════════
	router := newRouter(routerDeps{
		CORSOrigins: cfg.CORSOrigins,
		Log:         logging.Component(logger, "http"),
		Zones:       handlers.NewZoneHandler(parking),
		Predictions: handlers.NewPredictionHandler(parking),
		Events:      handlers.NewEventHandler(eventSource),
		Health:      handlers.NewHealthHandler(pinger, mlStatus),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logRoutes(log, cfg.Port)
	log.WithFields(logrus.Fields{
		"zones":  catalog.Len(),
		"events": len(eventSource.All()),
	}).Info("Reference data ready")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed to start")
		}
	}()

	// ═══════════════════════════════════════════════════════
	// PHASE 5: Graceful Shutdown
	// ═══════════════════════════════════════════════════════
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Graceful shutdown failed")
	}
	log.Info("Goodbye!")
}
