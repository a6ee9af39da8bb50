package models

import "fmt"

// RecommendationCandidate is an alternative zone with strictly better availability
type RecommendationCandidate struct {
	ZoneID          int     `json:"zone_id"`
	ZoneName        string  `json:"zone_name"`
	Tier            Tier    `json:"availability_level"`
	Occupancy       float64 `json:"occupancy"`
	Confidence      float64 `json:"confidence"`
	DistanceKm      float64 `json:"distance_km"`
	DistanceDisplay string  `json:"distance_display"`
	Score           float64 `json:"recommendation_score"`
	Reason          string  `json:"reason"`
	Improvement     int     `json:"improvement"` // tier steps gained, 1 or 2
}

// FormatDistance renders "850 m" under one kilometer and "1.4 km" above
func FormatDistance(km float64) string {
	if km >= 1 {
		return fmt.Sprintf("%.1f km", km)
	}
	return fmt.Sprintf("%d m", int(km*1000))
}

// RecommendationsRequest is the query of GET /api/v1/recommendations.
// An empty CurrentTier means the current zone is predicted first.
type RecommendationsRequest struct {
	ZoneID             int
	Date               string
	Hour               int
	DayOfWeek          int
	CurrentTier        Tier
	MaxRecommendations int
	MaxDistanceKm      float64
}

// Accepted ranges for the recommendation limits
const (
	MinRecommendations = 1
	MaxRecommendations = 5
	MinSearchRadiusKm  = 0.5
	MaxSearchRadiusKm  = 10.0
)

// RecommendationsResponse is the JSON response for GET /api/v1/recommendations
type RecommendationsResponse struct {
	ZoneID              int                       `json:"zone_id"`
	ZoneName            string                    `json:"zone_name"`
	CurrentAvailability Tier                      `json:"current_availability"`
	Recommendations     []RecommendationCandidate `json:"recommendations"`
	Count               int                       `json:"count"`
	MaxDistanceKm       float64                   `json:"max_distance_km"`
	GeneratedAt         string                    `json:"generated_at"`
}
