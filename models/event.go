package models

import "strings"

// Impact labels carried by events
const (
	ImpactLow      = "Low"
	ImpactMedium   = "Medium"
	ImpactHigh     = "High"
	ImpactVeryHigh = "Very High"
)

// impactMagnitudes maps impact labels to the event_impact feature.
// Labels missing from the table fall back to DefaultImpactMagnitude.
var impactMagnitudes = map[string]float64{
	ImpactHigh:   0.5,
	ImpactMedium: 0.3,
	ImpactLow:    0.1,
}

// DefaultImpactMagnitude applies to unrecognized impact labels
const DefaultImpactMagnitude = 0.1

// ImpactMagnitude returns the numeric magnitude for an impact label
func ImpactMagnitude(label string) float64 {
	if m, ok := impactMagnitudes[label]; ok {
		return m
	}
	return DefaultImpactMagnitude
}

// NormalizeImpact turns dataset labels such as "very_high" into "Very High"
func NormalizeImpact(label string) string {
	words := strings.Fields(strings.ReplaceAll(strings.TrimSpace(label), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// Event is a scheduled happening that raises parking demand in one zone.
// Events touching several zones are resolved upstream into one Event per zone.
type Event struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	ZoneID             int    `json:"zone_id"`
	Date               string `json:"date"` // YYYY-MM-DD
	StartHour          int    `json:"start_hour"`
	EndHour            int    `json:"end_hour"`
	Impact             string `json:"expected_impact"`
	EventType          string `json:"event_type,omitempty"`
	Venue              string `json:"venue,omitempty"`
	ExpectedAttendance int    `json:"expected_attendance,omitempty"`
}

// CoversHour reports whether hour falls within [StartHour, EndHour]
func (e *Event) CoversHour(hour int) bool {
	return e.StartHour <= hour && hour <= e.EndHour
}

// EventsByDateResponse is the response for GET /api/v1/events/date/{date}
type EventsByDateResponse struct {
	Date            string          `json:"date"`
	TotalEvents     int             `json:"total_events"`
	ZonesAffected   []int           `json:"zones_affected"`
	Events          []Event         `json:"events"`
	ZonesWithEvents map[int][]Event `json:"zones_with_events"`
}
