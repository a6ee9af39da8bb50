package service

import (
	"context"
	"testing"

	"github.com/you/parkcast/internal/config"
	"github.com/you/parkcast/internal/events"
	"github.com/you/parkcast/internal/history"
	"github.com/you/parkcast/internal/mlclient"
	"github.com/you/parkcast/internal/prediction"
	"github.com/you/parkcast/internal/zones"
	"github.com/you/parkcast/models"
)

// newDefaultService wires the service the way cmd/api does, from an
// environment where no dataset or model artifact exists
func newDefaultService(t *testing.T) *ParkingService {
	t.Helper()
	for _, key := range []string{
		"USE_ML_MODEL", "ML_SERVICE_URL", "ML_MODEL_PATH", "ML_DATA_DIR",
		"EVENTS_FILE", "HISTORY_FILE", "ZONES_FILE", "MAX_RECOMMENDATIONS", "MAX_DISTANCE_KM",
	} {
		t.Setenv(key, "")
	}
	cfg := config.Load()

	file, err := config.LoadCatalog(cfg.ZonesFile)
	if err != nil {
		t.Fatal(err)
	}
	catalog, err := zones.NewCatalog(file.ModelZones())
	if err != nil {
		t.Fatal(err)
	}

	hist := history.NewDataset(cfg.HistoryFile, nil)
	if !hist.Configured() {
		t.Fatal("default config should point at a history file")
	}
	model := mlclient.New(mlclient.Options{
		BaseURL:   cfg.MLServiceURL,
		ModelPath: cfg.MLModelPath,
		DataDir:   cfg.MLDataDir,
		Timeout:   cfg.MLTimeout,
	})
	predictor := prediction.NewPredictor(catalog, model, hist, nil)

	return NewParkingService(catalog, predictor, events.NewSource(cfg.EventsFile, file.EventZoneAliases, nil), Options{
		MaxRecommendations: cfg.MaxRecommendations,
		MaxDistanceKm:      cfg.MaxDistanceKm,
	}, nil)
}

func TestPredictOccupancy_DefaultConfigWithoutDatasets(t *testing.T) {
	svc := newDefaultService(t)

	tests := []struct {
		name           string
		req            models.PredictionRequest
		wantTier       models.Tier
		wantConfidence float64
	}{
		{"downtown weekday rush", models.PredictionRequest{ZoneID: 1, Date: "2026-02-10", Hour: 18, DayOfWeek: 1}, models.TierLow, 0.89},
		{"residential sunday night", models.PredictionRequest{ZoneID: 4, Date: "2026-02-15", Hour: 3, DayOfWeek: 6}, models.TierHigh, 0.77},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.PredictOccupancy(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("PredictOccupancy failed: %v", err)
			}
			if resp.UsedML {
				t.Error("no model artifacts exist, rule-based estimate expected")
			}
			if resp.AvailabilityLevel != tt.wantTier {
				t.Errorf("tier = %s, want %s", resp.AvailabilityLevel, tt.wantTier)
			}
			if resp.ConfidenceScore != tt.wantConfidence {
				t.Errorf("confidence = %v, want %v", resp.ConfidenceScore, tt.wantConfidence)
			}
		})
	}
}
