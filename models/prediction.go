package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format accepted on every endpoint
const DateLayout = "2006-01-02"

// Tier is the coarse availability bucket derived from occupancy
type Tier string

const (
	TierHigh   Tier = "High"
	TierMedium Tier = "Medium"
	TierLow    Tier = "Low"
)

// Occupancy breakpoints between tiers
const (
	highTierBelow   = 50.0
	mediumTierBelow = 80.0
)

// TierForOccupancy returns the availability tier for an occupancy percentage.
// This is the only place tiers are derived from occupancy.
func TierForOccupancy(occupancy float64) Tier {
	if occupancy < highTierBelow {
		return TierHigh
	}
	if occupancy < mediumTierBelow {
		return TierMedium
	}
	return TierLow
}

// Rank orders tiers for comparison: Low=1, Medium=2, High=3, unknown=0
func (t Tier) Rank() int {
	switch t {
	case TierLow:
		return 1
	case TierMedium:
		return 2
	case TierHigh:
		return 3
	default:
		return 0
	}
}

// ParseTier resolves a tier label case-insensitively
func ParseTier(label string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "high":
		return TierHigh, true
	case "medium":
		return TierMedium, true
	case "low":
		return TierLow, true
	}
	return "", false
}

// PredictionRequest identifies the zone and time slot to predict.
// DayOfWeek uses 0=Monday..6=Sunday; its consistency with Date is the caller's concern.
type PredictionRequest struct {
	ZoneID    int    `json:"zone_id"`
	Date      string `json:"date"`
	Hour      int    `json:"hour"`
	DayOfWeek int    `json:"day_of_week"`
}

// Validate rejects malformed requests before any feature is built
func (r *PredictionRequest) Validate() error {
	if r.ZoneID <= 0 {
		return fmt.Errorf("%w: zone_id must be positive", ErrValidation)
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("%w: date must use YYYY-MM-DD format", ErrValidation)
	}
	if r.Hour < 0 || r.Hour > 23 {
		return fmt.Errorf("%w: hour must be between 0 and 23", ErrValidation)
	}
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return fmt.Errorf("%w: day_of_week must be between 0 (Monday) and 6 (Sunday)", ErrValidation)
	}
	return nil
}

// Timestamp returns the start of the requested hour.
// The zero time is returned when Date does not parse.
func (r *PredictionRequest) Timestamp() time.Time {
	day, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return time.Time{}
	}
	return day.Add(time.Duration(r.Hour) * time.Hour)
}

// FeatureNames is the order in which FeatureBag.Vector emits values.
// Trained models depend on this order; never reorder, only append.
var FeatureNames = []string{
	"hour",
	"day_of_week",
	"is_weekend",
	"is_weekday",
	"is_morning",
	"is_afternoon",
	"is_evening",
	"is_night",
	"is_rush_hour",
	"month",
	"day_of_month",
	"is_business_district",
	"is_shopping_area",
	"is_residential",
	"is_educational",
	"traffic_impact",
	"event_impact",
	"events_count",
}

// FeatureBag holds every derived signal describing one prediction context
type FeatureBag struct {
	Hour        int  `json:"hour"`
	DayOfWeek   int  `json:"day_of_week"`
	IsWeekend   bool `json:"is_weekend"`
	IsWeekday   bool `json:"is_weekday"`
	IsMorning   bool `json:"is_morning"`
	IsAfternoon bool `json:"is_afternoon"`
	IsEvening   bool `json:"is_evening"`
	IsNight     bool `json:"is_night"`
	IsRushHour  bool `json:"is_rush_hour"`
	Month       int  `json:"month"`
	DayOfMonth  int  `json:"day_of_month"`

	ZoneID             int      `json:"zone_id"`
	Category           Category `json:"category"`
	IsBusinessDistrict bool     `json:"is_business_district"`
	IsShoppingArea     bool     `json:"is_shopping_area"`
	IsResidential      bool     `json:"is_residential"`
	IsEducational      bool     `json:"is_educational"`
	IsStadium          bool     `json:"is_stadium"`
	IsMixed            bool     `json:"is_mixed"`

	TrafficLevel  string   `json:"traffic_level"`
	TrafficImpact float64  `json:"traffic_impact"`
	EventImpact   float64  `json:"event_impact"`
	EventsCount   int      `json:"events_count"`
	EventNames    []string `json:"event_names,omitempty"`
}

// Feature is one named entry of the ordered feature view
type Feature struct {
	Name  string
	Value float64
}

// Named returns the model features as (name, value) pairs in FeatureNames order
func (f *FeatureBag) Named() []Feature {
	values := []float64{
		float64(f.Hour),
		float64(f.DayOfWeek),
		boolToFloat(f.IsWeekend),
		boolToFloat(f.IsWeekday),
		boolToFloat(f.IsMorning),
		boolToFloat(f.IsAfternoon),
		boolToFloat(f.IsEvening),
		boolToFloat(f.IsNight),
		boolToFloat(f.IsRushHour),
		float64(f.Month),
		float64(f.DayOfMonth),
		boolToFloat(f.IsBusinessDistrict),
		boolToFloat(f.IsShoppingArea),
		boolToFloat(f.IsResidential),
		boolToFloat(f.IsEducational),
		f.TrafficImpact,
		f.EventImpact,
		float64(f.EventsCount),
	}

	named := make([]Feature, len(FeatureNames))
	for i, name := range FeatureNames {
		named[i] = Feature{Name: name, Value: values[i]}
	}
	return named
}

// Vector flattens the bag into the numeric vector a trained model expects
func (f *FeatureBag) Vector() []float64 {
	named := f.Named()
	vec := make([]float64, len(named))
	for i, feat := range named {
		vec[i] = feat.Value
	}
	return vec
}

// TimeOfDay returns "morning", "afternoon", "evening" or "night"
func (f *FeatureBag) TimeOfDay() string {
	switch {
	case f.IsMorning:
		return "morning"
	case f.IsAfternoon:
		return "afternoon"
	case f.IsEvening:
		return "evening"
	default:
		return "night"
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// PredictionResult is the per-request outcome of the occupancy predictor.
// It is computed on demand and never stored.
type PredictionResult struct {
	Occupancy    float64    `json:"occupancy"`  // 0-100
	Tier         Tier       `json:"availability_level"`
	Confidence   float64    `json:"confidence"` // 0-1
	Features     FeatureBag `json:"features"`
	UsedFallback bool       `json:"used_fallback"`
}

// PredictionFactors summarizes the drivers of a prediction for display
type PredictionFactors struct {
	TimeOfDay    string `json:"time_of_day"`
	IsWeekend    bool   `json:"is_weekend"`
	TrafficLevel string `json:"traffic_level"`
	EventsNearby int    `json:"events_nearby"`
}

// PredictionResponse is the JSON response for POST /api/v1/predict
type PredictionResponse struct {
	PredictionID       string            `json:"prediction_id"`
	ZoneID             int               `json:"zone_id"`
	ZoneName           string            `json:"zone_name"`
	AvailabilityLevel  Tier              `json:"availability_level"`
	ConfidenceScore    float64           `json:"confidence_score"`
	PredictedOccupancy float64           `json:"predicted_occupancy"`
	AvailableSpaces    int               `json:"available_spaces"`
	TotalSpaces        int               `json:"total_spaces"`
	Timestamp          string            `json:"timestamp"`
	UsedML             bool              `json:"used_ml"`
	Factors            PredictionFactors `json:"factors"`
}

// AvailableSpaces estimates free spaces from occupancy and capacity
func AvailableSpaces(occupancy float64, capacity int) int {
	free := int((1 - occupancy/100) * float64(capacity))
	if free < 0 {
		return 0
	}
	return free
}
