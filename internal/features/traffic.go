package features

import "github.com/you/parkcast/models"

// TrafficLevel is the coarse traffic estimate around a zone
type TrafficLevel string

const (
	TrafficLow      TrafficLevel = "low"
	TrafficModerate TrafficLevel = "moderate"
	TrafficHigh     TrafficLevel = "high"
)

var trafficImpacts = map[TrafficLevel]float64{
	TrafficLow:      0.1,
	TrafficModerate: 0.3,
	TrafficHigh:     0.5,
}

// Impact converts a traffic level into the traffic_impact feature
func (l TrafficLevel) Impact() float64 {
	if impact, ok := trafficImpacts[l]; ok {
		return impact
	}
	return trafficImpacts[TrafficModerate]
}

type trafficProfile func(tf TimeFeatures) TrafficLevel

// trafficProfiles holds the per-category traffic policy.
// Categories without an entry get TrafficModerate.
var trafficProfiles = map[models.Category]trafficProfile{
	// Business districts peak on weekday rush hours
	models.CategoryBusinessDistrict: func(tf TimeFeatures) TrafficLevel {
		switch {
		case tf.IsRushHour && tf.IsWeekday:
			return TrafficHigh
		case tf.IsWeekday:
			return TrafficModerate
		default:
			return TrafficLow
		}
	},
	// Shopping peaks on weekends from late morning to evening
	models.CategoryShopping: func(tf TimeFeatures) TrafficLevel {
		switch {
		case tf.IsWeekend && 10 <= tf.Hour && tf.Hour < 20:
			return TrafficHigh
		case 12 <= tf.Hour && tf.Hour < 18:
			return TrafficModerate
		default:
			return TrafficLow
		}
	},
	models.CategoryResidential: func(tf TimeFeatures) TrafficLevel {
		if tf.IsRushHour {
			return TrafficModerate
		}
		return TrafficLow
	},
	// Campuses are busy during weekday class hours
	models.CategoryEducational: func(tf TimeFeatures) TrafficLevel {
		switch {
		case tf.IsWeekday && 8 <= tf.Hour && tf.Hour < 18:
			return TrafficHigh
		case tf.IsWeekday:
			return TrafficModerate
		default:
			return TrafficLow
		}
	},
}

// EstimateTraffic returns the traffic level for a zone category at a time slot
func EstimateTraffic(category models.Category, tf TimeFeatures) TrafficLevel {
	if profile, ok := trafficProfiles[category]; ok {
		return profile(tf)
	}
	return TrafficModerate
}
