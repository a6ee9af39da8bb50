package features

import (
	"time"

	"github.com/you/parkcast/models"
)

// TimeFeatures are the calendar and time-of-day signals of a prediction slot
type TimeFeatures struct {
	Hour        int
	DayOfWeek   int
	IsWeekend   bool
	IsWeekday   bool
	IsMorning   bool
	IsAfternoon bool
	IsEvening   bool
	IsNight     bool
	IsRushHour  bool
	Month       int
	DayOfMonth  int
}

// ExtractTime derives time features from a date, hour and weekday (0=Monday).
// An unparseable date leaves Month and DayOfMonth at zero.
func ExtractTime(date string, hour, dayOfWeek int) TimeFeatures {
	weekend := dayOfWeek == 5 || dayOfWeek == 6

	tf := TimeFeatures{
		Hour:        hour,
		DayOfWeek:   dayOfWeek,
		IsWeekend:   weekend,
		IsWeekday:   !weekend,
		IsMorning:   6 <= hour && hour < 12,
		IsAfternoon: 12 <= hour && hour < 18,
		IsEvening:   18 <= hour && hour < 22,
		IsNight:     hour >= 22 || hour < 6,
		IsRushHour:  (7 <= hour && hour < 9) || (17 <= hour && hour < 19),
	}

	if day, err := time.Parse(models.DateLayout, date); err == nil {
		tf.Month = int(day.Month())
		tf.DayOfMonth = day.Day()
	}

	return tf
}
