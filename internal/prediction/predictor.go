// Package prediction turns a zone and time slot into an occupancy estimate.
// It asks the trained model first and falls back to deterministic rules.
package prediction

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/you/parkcast/internal/features"
	"github.com/you/parkcast/internal/geo"
	"github.com/you/parkcast/models"
)

// Model is the trained occupancy regressor
type Model interface {
	// Load prepares the model; it is idempotent and returns the first outcome
	Load(ctx context.Context) error
	PredictAt(ctx context.Context, modelZoneID string, ts time.Time) (models.ModelOutput, error)
}

// ZoneCatalog provides zone reference data and the model id mapping
type ZoneCatalog interface {
	features.ZoneLookup
	ModelZoneID(id int) (string, bool)
}

// HistoryIndex reports which model zones have historical observations
type HistoryIndex interface {
	HasZone(modelZoneID string) bool
}

// Predictor estimates occupancy for one zone and hour. It holds no mutable
// state of its own and is safe for concurrent use.
type Predictor struct {
	zones   ZoneCatalog
	builder *features.Builder
	model   Model
	history HistoryIndex
	log     *logrus.Entry
}

// NewPredictor creates a predictor. A nil model disables model predictions;
// a nil history index counts every zone as having history.
func NewPredictor(zones ZoneCatalog, model Model, history HistoryIndex, log *logrus.Entry) *Predictor {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = logrus.NewEntry(l)
	}
	return &Predictor{
		zones:   zones,
		builder: features.NewBuilder(zones),
		model:   model,
		history: history,
		log:     log,
	}
}

// ModelAvailable reports whether the trained model loaded
func (p *Predictor) ModelAvailable(ctx context.Context) bool {
	return p.model != nil && p.model.Load(ctx) == nil
}

// Predict estimates occupancy for req. events may cover any zones; only those
// matching the requested zone, date and hour are counted. The only error is
// the caller's context being done.
func (p *Predictor) Predict(ctx context.Context, req models.PredictionRequest, events []models.Event) (models.PredictionResult, error) {
	if err := ctx.Err(); err != nil {
		return models.PredictionResult{}, err
	}

	bag := p.builder.Build(req.ZoneID, req.Date, req.Hour, req.DayOfWeek, events)

	occupancy, confidence, ok := p.tryModel(ctx, req, bag)
	if err := ctx.Err(); err != nil {
		return models.PredictionResult{}, err
	}
	if !ok {
		occupancy, confidence = p.fallback(req, bag)
	}

	// tier boundaries apply to the exact value, rounding is for display only
	tier := models.TierForOccupancy(occupancy)
	return models.PredictionResult{
		Occupancy:    geo.Round(occupancy, 1),
		Tier:         tier,
		Confidence:   confidence,
		Features:     bag,
		UsedFallback: !ok,
	}, nil
}

// tryModel returns ok=false whenever the model cannot answer for this zone
func (p *Predictor) tryModel(ctx context.Context, req models.PredictionRequest, bag models.FeatureBag) (occupancy, confidence float64, ok bool) {
	if p.model == nil || p.model.Load(ctx) != nil {
		return 0, 0, false
	}

	modelZoneID, mapped := p.modelZoneID(req.ZoneID)
	if !mapped {
		p.log.WithField("zone_id", req.ZoneID).Debug("zone not covered by model")
		return 0, 0, false
	}

	out, err := p.model.PredictAt(ctx, modelZoneID, req.Timestamp())
	if err != nil {
		p.log.WithError(err).WithFields(logrus.Fields{
			"zone_id":       req.ZoneID,
			"model_zone_id": modelZoneID,
		}).Warn("model prediction failed, using rule-based estimate")
		return 0, 0, false
	}

	switch {
	case out.OccupancyPercent != nil:
		occupancy = *out.OccupancyPercent
	case out.OccupancyRate != nil:
		occupancy = *out.OccupancyRate * 100
	default:
		return 0, 0, false
	}
	occupancy = geo.Clamp(occupancy, 0, 100)

	if out.Confidence != nil {
		confidence = normalizeConfidence(*out.Confidence)
	} else {
		confidence = ScoreConfidence(bag, p.hasHistory(req.ZoneID))
	}
	return occupancy, confidence, true
}

func (p *Predictor) fallback(req models.PredictionRequest, bag models.FeatureBag) (occupancy, confidence float64) {
	return EstimateOccupancy(bag), ScoreConfidence(bag, p.hasHistory(req.ZoneID))
}

func (p *Predictor) hasHistory(zoneID int) bool {
	if p.history == nil {
		return true
	}
	modelZoneID, _ := p.modelZoneID(zoneID)
	return p.history.HasZone(modelZoneID)
}

func (p *Predictor) modelZoneID(zoneID int) (string, bool) {
	if p.zones == nil {
		return "", false
	}
	return p.zones.ModelZoneID(zoneID)
}
