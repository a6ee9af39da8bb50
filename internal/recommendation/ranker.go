// Package recommendation ranks nearby zones with better predicted
// availability than the zone a driver is heading to.
package recommendation

import (
	"context"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/you/parkcast/internal/geo"
	"github.com/you/parkcast/models"
)

// Scoring weights: availability gain dominates, proximity breaks near-ties
const (
	improvementWeight = 0.7
	distanceWeight    = 0.3
)

// Defaults applied when a query leaves limits unset
const (
	DefaultMaxResults    = 3
	DefaultMaxDistanceKm = 3.0
)

// maxParallelPredictions bounds the per-zone prediction fan-out
const maxParallelPredictions = 8

// Predictor is the occupancy predictor used for every candidate zone
type Predictor interface {
	Predict(ctx context.Context, req models.PredictionRequest, events []models.Event) (models.PredictionResult, error)
}

// ZoneCatalog lists zones in catalog order
type ZoneCatalog interface {
	Zone(id int) (models.Zone, bool)
	All() []models.Zone
}

// Query describes the zone being avoided and the time slot
type Query struct {
	ZoneID        int
	Date          string
	Hour          int
	DayOfWeek     int
	CurrentTier   models.Tier
	MaxResults    int
	MaxDistanceKm float64
	Events        []models.Event // any zones; each prediction keeps its own
}

// Ranker scores alternative zones. It is safe for concurrent use.
type Ranker struct {
	zones     ZoneCatalog
	predictor Predictor
	log       *logrus.Entry
}

// NewRanker creates a ranker over the catalog
func NewRanker(zones ZoneCatalog, predictor Predictor, log *logrus.Entry) *Ranker {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = logrus.NewEntry(l)
	}
	return &Ranker{zones: zones, predictor: predictor, log: log}
}

type candidate struct {
	zone     models.Zone
	distance float64
}

// Recommend returns up to q.MaxResults zones with strictly better tiers than
// q.CurrentTier within q.MaxDistanceKm, best first. The result is empty when
// the current tier is already High or the zone is unknown. A cancelled
// context abandons the whole computation.
func (r *Ranker) Recommend(ctx context.Context, q Query) ([]models.RecommendationCandidate, error) {
	if q.MaxResults <= 0 {
		q.MaxResults = DefaultMaxResults
	}
	if q.MaxDistanceKm <= 0 {
		q.MaxDistanceKm = DefaultMaxDistanceKm
	}

	current, ok := r.zones.Zone(q.ZoneID)
	if !ok {
		r.log.WithField("zone_id", q.ZoneID).Warn("recommendations requested for unknown zone")
		return []models.RecommendationCandidate{}, nil
	}
	// nothing beats High; an unrecognized tier gets no suggestions either
	currentRank := q.CurrentTier.Rank()
	if currentRank == 0 || q.CurrentTier == models.TierHigh {
		return []models.RecommendationCandidate{}, nil
	}

	origin := current.Location()
	var candidates []candidate
	for _, z := range r.zones.All() {
		if z.ID == current.ID {
			continue
		}
		d := geo.HaversineKm(origin, z.Location())
		if d > q.MaxDistanceKm {
			continue
		}
		candidates = append(candidates, candidate{zone: z, distance: d})
	}

	// each goroutine owns one slot so no locking is needed
	slots := make([]*models.RecommendationCandidate, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelPredictions)

	for i, c := range candidates {
		g.Go(func() error {
			res, err := r.predictor.Predict(gctx, models.PredictionRequest{
				ZoneID:    c.zone.ID,
				Date:      q.Date,
				Hour:      q.Hour,
				DayOfWeek: q.DayOfWeek,
			}, q.Events)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.log.WithError(err).WithField("zone_id", c.zone.ID).Warn("skipping candidate zone")
				return nil
			}

			improvement := res.Tier.Rank() - currentRank
			if improvement <= 0 {
				return nil
			}

			score := float64(improvement)*improvementWeight - (c.distance/q.MaxDistanceKm)*distanceWeight
			slots[i] = &models.RecommendationCandidate{
				ZoneID:          c.zone.ID,
				ZoneName:        c.zone.Name,
				Tier:            res.Tier,
				Occupancy:       res.Occupancy,
				Confidence:      res.Confidence,
				DistanceKm:      geo.Round(c.distance, 2),
				DistanceDisplay: models.FormatDistance(c.distance),
				Score:           score,
				Reason:          Reason(current.Category, c.zone.Category, c.distance, improvement),
				Improvement:     improvement,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.RecommendationCandidate, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			out = append(out, *s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	if len(out) > q.MaxResults {
		out = out[:q.MaxResults]
	}

	r.log.WithFields(logrus.Fields{
		"zone_id":      q.ZoneID,
		"current_tier": q.CurrentTier,
		"considered":   len(candidates),
		"returned":     len(out),
	}).Debug("recommendations ranked")

	return out, nil
}

// similarityNotes name categories worth pointing out when shared
var similarityNotes = map[models.Category]string{
	models.CategoryBusinessDistrict: "similar business area",
	models.CategoryShopping:         "similar shopping area",
}

// Reason explains a recommendation in a short human-readable phrase
func Reason(current, alternative models.Category, distanceKm float64, improvement int) string {
	var parts []string

	switch {
	case distanceKm < 0.5:
		parts = append(parts, "very close by")
	case distanceKm < 1:
		parts = append(parts, "short walk away")
	case distanceKm < 2:
		parts = append(parts, "nearby area")
	}

	switch improvement {
	case 2:
		parts = append(parts, "much better availability")
	case 1:
		parts = append(parts, "better availability")
	}

	if current == alternative {
		if note, ok := similarityNotes[current]; ok {
			parts = append(parts, note)
		}
	}

	if len(parts) == 0 {
		return "alternative option"
	}
	return strings.Join(parts, ", ")
}
