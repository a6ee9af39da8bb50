package prediction

import (
	"github.com/you/parkcast/internal/geo"
	"github.com/you/parkcast/models"
)

// baseOccupancy is the typical occupancy percentage of each zone category.
// Categories without an entry use defaultBaseOccupancy.
var baseOccupancy = map[models.Category]float64{
	models.CategoryBusinessDistrict: 70,
	models.CategoryShopping:         60,
	models.CategoryEducational:      65,
	models.CategoryResidential:      40,
}

const defaultBaseOccupancy = 50

// weekendShift adjusts categories whose demand moves on weekends
var weekendShift = map[models.Category]float64{
	models.CategoryShopping:         15,
	models.CategoryBusinessDistrict: -20,
}

// Time-of-day adjustments, applied first-match in this order
const (
	rushHourShift = 20
	nightShift    = -30
	morningShift  = 10
)

// Weights of the traffic and event features, in occupancy points per unit of impact
const (
	trafficWeight = 30
	eventWeight   = 40
)

// EstimateOccupancy is the rule-based occupancy estimate (0-100) used when the
// trained model cannot answer. It depends only on the feature bag.
func EstimateOccupancy(bag models.FeatureBag) float64 {
	occupancy, ok := baseOccupancy[bag.Category]
	if !ok {
		occupancy = defaultBaseOccupancy
	}

	switch {
	case bag.IsRushHour:
		occupancy += rushHourShift
	case bag.IsNight:
		occupancy += nightShift
	case bag.IsMorning:
		occupancy += morningShift
	}

	if bag.IsWeekend {
		occupancy += weekendShift[bag.Category]
	}

	occupancy += bag.TrafficImpact * trafficWeight
	occupancy += bag.EventImpact * eventWeight

	return geo.Clamp(occupancy, 0, 100)
}
