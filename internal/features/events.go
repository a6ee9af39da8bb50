package features

import "github.com/you/parkcast/models"

// EventImpact summarizes the events active in a zone at a given hour
type EventImpact struct {
	Count  int
	Impact float64
	Names  []string
}

// EvaluateEvents counts events in zoneID on date whose window contains hour.
// The impact is the largest single magnitude; impacts do not add up.
func EvaluateEvents(zoneID int, date string, hour int, events []models.Event) EventImpact {
	var result EventImpact
	for i := range events {
		ev := &events[i]
		if ev.ZoneID != zoneID || ev.Date != date || !ev.CoversHour(hour) {
			continue
		}

		result.Count++
		result.Names = append(result.Names, ev.Name)
		if m := models.ImpactMagnitude(ev.Impact); m > result.Impact {
			result.Impact = m
		}
	}
	return result
}
