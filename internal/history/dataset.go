// Package history summarizes the historical occupancy dataset the model was
// trained on. The predictor only asks whether a zone is covered; the slot
// baselines are reported by the ml-test endpoint.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Record is one row of parking_data.json
type Record struct {
	BlockfaceID   string  `json:"blockface_id"`
	Datetime      string  `json:"datetime"`
	OccupancyRate float64 `json:"occupancy_rate"` // 0-1
}

// Slot is an hour-of-week bucket; DayOfWeek uses 0=Monday
type Slot struct {
	DayOfWeek int
	Hour      int
}

// datetimeLayouts are the timestamp formats seen in exported datasets
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", s)
}

// mondayFirst converts time.Weekday (Sunday=0) to 0=Monday..6=Sunday
func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Dataset lazily loads the historical file once and keeps per-zone slot stats.
// A Dataset with an empty path is "not configured" and reports every zone as
// covered; so does one whose file is missing or unreadable.
type Dataset struct {
	path string
	log  *logrus.Entry

	once    sync.Once
	loadErr error
	zones   map[string]map[Slot]*Stats
	rows    int
	skipped int
}

// NewDataset creates a dataset backed by the JSON file at path
func NewDataset(path string, log *logrus.Entry) *Dataset {
	return &Dataset{path: path, log: log}
}

// Configured reports whether a dataset path was given
func (d *Dataset) Configured() bool {
	return d != nil && d.path != ""
}

// Load reads and summarizes the file on first call; later calls return the first result
func (d *Dataset) Load() error {
	if !d.Configured() {
		return nil
	}
	d.once.Do(func() {
		d.loadErr = d.load()
		if d.log == nil {
			return
		}
		if d.loadErr != nil {
			d.log.WithError(d.loadErr).Warn("historical dataset unavailable, every zone counts as covered")
			return
		}
		d.log.WithFields(logrus.Fields{
			"path":    d.path,
			"rows":    d.rows,
			"skipped": d.skipped,
			"zones":   len(d.zones),
		}).Info("historical dataset loaded")
	})
	return d.loadErr
}

func (d *Dataset) load() error {
	f, err := os.Open(d.path)
	if err != nil {
		return fmt.Errorf("failed to open historical dataset: %w", err)
	}
	defer f.Close()

	var records []Record
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return fmt.Errorf("failed to decode historical dataset: %w", err)
	}

	zones := make(map[string]map[Slot]*Stats)
	for _, rec := range records {
		ts, err := parseDatetime(rec.Datetime)
		if err != nil || rec.BlockfaceID == "" {
			d.skipped++
			continue
		}
		slots, ok := zones[rec.BlockfaceID]
		if !ok {
			slots = make(map[Slot]*Stats)
			zones[rec.BlockfaceID] = slots
		}
		slot := Slot{DayOfWeek: mondayFirst(ts.Weekday()), Hour: ts.Hour()}
		st, ok := slots[slot]
		if !ok {
			st = &Stats{}
			slots[slot] = st
		}
		st.Add(rec.OccupancyRate * 100)
		d.rows++
	}

	d.zones = zones
	return nil
}

// HasZone reports whether historical observations exist for a model zone id.
// Without usable data (unconfigured, missing or unreadable file) every zone counts as covered.
func (d *Dataset) HasZone(modelZoneID string) bool {
	if !d.Configured() || d.Load() != nil {
		return true
	}
	_, ok := d.zones[modelZoneID]
	return ok
}

// Baseline returns the occupancy statistics of a zone at one hour-of-week slot
func (d *Dataset) Baseline(modelZoneID string, dayOfWeek, hour int) (Stats, bool) {
	if !d.Configured() || d.Load() != nil {
		return Stats{}, false
	}
	st, ok := d.zones[modelZoneID][Slot{DayOfWeek: dayOfWeek, Hour: hour}]
	if !ok {
		return Stats{}, false
	}
	return *st, true
}

// ZoneSummary is the whole-week rollup of one zone
type ZoneSummary struct {
	ModelZoneID  string  `json:"model_zone_id"`
	Observations int     `json:"observations"`
	MeanPercent  float64 `json:"mean_occupancy"`
	StdDev       float64 `json:"std_dev"`
}

// Summaries merges every slot per zone, sorted by model zone id
func (d *Dataset) Summaries() []ZoneSummary {
	if !d.Configured() || d.Load() != nil {
		return nil
	}
	out := make([]ZoneSummary, 0, len(d.zones))
	for id, slots := range d.zones {
		var total Stats
		for _, st := range slots {
			total.Merge(*st)
		}
		out = append(out, ZoneSummary{
			ModelZoneID:  id,
			Observations: total.Count,
			MeanPercent:  total.Mean,
			StdDev:       total.StdDev(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModelZoneID < out[j].ModelZoneID })
	return out
}

// FileInfo describes the dataset file for status reporting.
// exists is false when the file is missing or the dataset is unconfigured.
func (d *Dataset) FileInfo() (path string, size int64, exists bool) {
	if !d.Configured() {
		return "", 0, false
	}
	st, err := os.Stat(d.path)
	if err != nil {
		return d.path, 0, false
	}
	return d.path, st.Size(), true
}
