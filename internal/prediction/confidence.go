package prediction

import (
	"github.com/you/parkcast/internal/geo"
	"github.com/you/parkcast/models"
)

const (
	baseConfidence = 0.85

	noHistoryFactor   = 0.7
	nightFactor       = 0.9
	rushWeekdayFactor = 1.05
	busyEventsFactor  = 0.85

	// more than this many concurrent events makes the estimate less reliable
	busyEventsThreshold = 2
)

// ScoreConfidence rates the rule-based estimate in [0,1], rounded to 2 decimals
func ScoreConfidence(bag models.FeatureBag, hasHistory bool) float64 {
	confidence := baseConfidence

	if !hasHistory {
		confidence *= noHistoryFactor
	}
	if bag.IsNight {
		confidence *= nightFactor
	}
	if bag.IsRushHour && bag.IsWeekday {
		confidence = min(confidence*rushWeekdayFactor, 1.0)
	}
	if bag.EventsCount > busyEventsThreshold {
		confidence *= busyEventsFactor
	}

	return geo.Round(geo.Clamp(confidence, 0, 1), 2)
}

// normalizeConfidence converts a model-reported confidence to [0,1].
// Values above 1 are treated as percentages.
func normalizeConfidence(c float64) float64 {
	if c > 1 {
		c /= 100
	}
	return geo.Round(geo.Clamp(c, 0, 1), 2)
}
