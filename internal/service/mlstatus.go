package service

import (
	"context"
	"fmt"

	"github.com/you/parkcast/internal/geo"
	"github.com/you/parkcast/internal/history"
	"github.com/you/parkcast/internal/zones"
	"github.com/you/parkcast/models"
)

// ModelInspector is the view of the model client needed for status reports
type ModelInspector interface {
	Load(ctx context.Context) error
	LoadError() error
	Loaded() bool
	Artifacts() (model, dataDir models.FileStatus)
	BaseURL() string
}

// MLStatusService reports whether predictions come from the trained model
type MLStatusService struct {
	enabled bool
	model   ModelInspector // nil when disabled
	history *history.Dataset
	catalog *zones.Catalog
	parking *ParkingService
}

// NewMLStatusService creates the status reporter. model may be nil.
func NewMLStatusService(enabled bool, model ModelInspector, hist *history.Dataset, catalog *zones.Catalog, parking *ParkingService) *MLStatusService {
	return &MLStatusService{enabled: enabled, model: model, history: hist, catalog: catalog, parking: parking}
}

// Status inspects the model artifacts and load state
func (s *MLStatusService) Status(ctx context.Context) models.MLStatusResponse {
	resp := models.MLStatusResponse{
		Enabled:     s.enabled,
		ZoneMapping: s.catalog.ModelZoneIDs(),
	}

	if s.model != nil {
		resp.ServiceURL = s.model.BaseURL()
		resp.Model, resp.DataDir = s.model.Artifacts()
		resp.Model.SizeMB = geo.Round(resp.Model.SizeMB, 2)
		_ = s.model.Load(ctx)
		if err := s.model.LoadError(); err != nil {
			resp.LoadError = err.Error()
		}
		resp.Loaded = s.model.Loaded()
	}

	if path, size, exists := s.history.FileInfo(); path != "" {
		resp.History = models.FileStatus{Path: path, Exists: exists, SizeMB: geo.Round(float64(size)/(1024*1024), 2)}
		resp.HistoryZones = len(s.history.Summaries())
	}

	switch {
	case resp.Loaded:
		resp.Message = "trained model is active and used for predictions"
		resp.Hints = []string{
			fmt.Sprintf("model size: %.1f MB", resp.Model.SizeMB),
			fmt.Sprintf("configured for %d zones", len(resp.ZoneMapping)),
		}
	case !s.enabled:
		resp.Message = "trained model is disabled in configuration (USE_ML_MODEL=false)"
		resp.Hints = []string{"set USE_ML_MODEL=true in the environment or .env file"}
	case !resp.Model.Exists:
		resp.Message = "model file not found at " + resp.Model.Path
		resp.Hints = []string{"ensure the model exists at " + resp.Model.Path, "train it with: cd ml && python src/train.py"}
	case !resp.DataDir.Exists:
		resp.Message = "model data directory not found at " + resp.DataDir.Path
		resp.Hints = []string{"ensure the data directory exists at " + resp.DataDir.Path, "prepare it with: cd ml && python scripts/prepare_data.py"}
	default:
		resp.Message = "trained model failed to load, rule-based estimates in use"
		resp.Hints = []string{"check that the model service at " + resp.ServiceURL + " is running", "check server logs for load errors"}
	}

	return resp
}

// sampleRequest is the fixed prediction used by the model smoke test
var sampleRequest = models.PredictionRequest{ZoneID: 1, Date: "2026-12-23", Hour: 18, DayOfWeek: 2}

// Test runs one sample prediction end to end
func (s *MLStatusService) Test(ctx context.Context) (models.MLTestResponse, error) {
	req := sampleRequest
	if _, ok := s.catalog.Zone(req.ZoneID); !ok {
		all := s.catalog.All()
		if len(all) == 0 {
			return models.MLTestResponse{}, fmt.Errorf("%w: catalog is empty", models.ErrZoneNotFound)
		}
		req.ZoneID = all[0].ID
	}

	pred, err := s.parking.PredictOccupancy(ctx, req)
	if err != nil {
		return models.MLTestResponse{}, err
	}

	msg := "model prediction successful"
	if !pred.UsedML {
		msg = "rule-based estimate used, trained model not active"
	}
	return models.MLTestResponse{
		Success:            true,
		Request:            req,
		Prediction:         pred,
		HistoricalBaseline: s.baseline(req),
		Message:            msg,
	}, nil
}

// baseline looks up the recorded occupancy at the request's slot, nil when none
func (s *MLStatusService) baseline(req models.PredictionRequest) *models.SlotBaseline {
	modelZoneID, ok := s.catalog.ModelZoneID(req.ZoneID)
	if !ok {
		return nil
	}
	st, ok := s.history.Baseline(modelZoneID, req.DayOfWeek, req.Hour)
	if !ok {
		return nil
	}
	return &models.SlotBaseline{
		ModelZoneID:   modelZoneID,
		DayOfWeek:     req.DayOfWeek,
		Hour:          req.Hour,
		Observations:  st.Count,
		MeanOccupancy: geo.Round(st.Mean, 1),
		StdDev:        geo.Round(st.StdDev(), 1),
	}
}
