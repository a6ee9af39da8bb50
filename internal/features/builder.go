package features

import "github.com/you/parkcast/models"

// ZoneLookup resolves zone reference data by id
type ZoneLookup interface {
	Zone(id int) (models.Zone, bool)
}

// Builder composes time, traffic, event and zone-category signals into a FeatureBag
type Builder struct {
	zones ZoneLookup
}

// NewBuilder creates a feature builder backed by the given zone lookup
func NewBuilder(zones ZoneLookup) *Builder {
	return &Builder{zones: zones}
}

// Build never fails: an unknown zone is treated as a mixed-use zone
func (b *Builder) Build(zoneID int, date string, hour, dayOfWeek int, events []models.Event) models.FeatureBag {
	category := models.CategoryMixed
	if b.zones != nil {
		if zone, ok := b.zones.Zone(zoneID); ok {
			category = zone.Category
		}
	}

	tf := ExtractTime(date, hour, dayOfWeek)
	traffic := EstimateTraffic(category, tf)
	ev := EvaluateEvents(zoneID, date, hour, events)

	return models.FeatureBag{
		Hour:        tf.Hour,
		DayOfWeek:   tf.DayOfWeek,
		IsWeekend:   tf.IsWeekend,
		IsWeekday:   tf.IsWeekday,
		IsMorning:   tf.IsMorning,
		IsAfternoon: tf.IsAfternoon,
		IsEvening:   tf.IsEvening,
		IsNight:     tf.IsNight,
		IsRushHour:  tf.IsRushHour,
		Month:       tf.Month,
		DayOfMonth:  tf.DayOfMonth,

		ZoneID:             zoneID,
		Category:           category,
		IsBusinessDistrict: category == models.CategoryBusinessDistrict,
		IsShoppingArea:     category == models.CategoryShopping,
		IsResidential:      category == models.CategoryResidential,
		IsEducational:      category == models.CategoryEducational,
		IsStadium:          category == models.CategoryStadium,
		IsMixed:            category == models.CategoryMixed,

		TrafficLevel:  string(traffic),
		TrafficImpact: traffic.Impact(),
		EventImpact:   ev.Impact,
		EventsCount:   ev.Count,
		EventNames:    ev.Names,
	}
}
