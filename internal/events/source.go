// Package events loads the scheduled events dataset and resolves every event
// into one entry per affected zone.
package events

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/you/parkcast/models"
)

// defaultEndHour closes events whose dataset entry has no end time
const defaultEndHour = 23

// Record is one entry of events.json, keyed by model zone ids
type Record struct {
	EventID            string   `json:"event_id"`
	EventName          string   `json:"event_name"`
	EventType          string   `json:"event_type"`
	Venue              string   `json:"venue"`
	Date               string   `json:"date"`
	StartTime          string   `json:"start_time"` // HH:MM
	EndTime            string   `json:"end_time,omitempty"`
	ExpectedAttendance int      `json:"expected_attendance"`
	NearbyZones        []string `json:"nearby_zones"`
	ImpactLevel        string   `json:"impact_level"`
}

// parseHour reads the hour of an "HH:MM" string
func parseHour(s string) (int, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	h, err := strconv.Atoi(s)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h, nil
}

// Resolve expands records into per-zone events using the alias table.
// Aliases resolving to the same zone yield a single event for that zone.
func Resolve(records []Record, aliases map[string]int) ([]models.Event, error) {
	var out []models.Event
	for _, rec := range records {
		start, err := parseHour(rec.StartTime)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", rec.EventID, err)
		}
		end := defaultEndHour
		if rec.EndTime != "" {
			if end, err = parseHour(rec.EndTime); err != nil {
				return nil, fmt.Errorf("event %s: %w", rec.EventID, err)
			}
		}

		seen := make(map[int]bool)
		for _, code := range rec.NearbyZones {
			zoneID, ok := aliases[code]
			if !ok || seen[zoneID] {
				continue
			}
			seen[zoneID] = true
			out = append(out, models.Event{
				ID:                 fmt.Sprintf("%s_%d", rec.EventID, zoneID),
				Name:               rec.EventName,
				ZoneID:             zoneID,
				Date:               rec.Date,
				StartHour:          start,
				EndHour:            end,
				Impact:             models.NormalizeImpact(rec.ImpactLevel),
				EventType:          rec.EventType,
				Venue:              rec.Venue,
				ExpectedAttendance: rec.ExpectedAttendance,
			})
		}
	}
	return out, nil
}

// Source serves resolved events. The dataset file is read once, on first use;
// a missing or broken file leaves the source empty.
type Source struct {
	path    string
	aliases map[string]int
	log     *logrus.Entry

	once    sync.Once
	loadErr error
	events  []models.Event
}

// NewSource creates a source for the events file at path
func NewSource(path string, aliases map[string]int, log *logrus.Entry) *Source {
	return &Source{path: path, aliases: aliases, log: log}
}

// NewStaticSource creates a source over already-resolved events
func NewStaticSource(events []models.Event) *Source {
	s := &Source{events: events}
	s.once.Do(func() {})
	return s
}

func (s *Source) load() {
	s.once.Do(func() {
		if s.path == "" {
			return
		}
		s.loadErr = s.read()
		if s.log == nil {
			return
		}
		if s.loadErr != nil {
			s.log.WithError(s.loadErr).Warn("events dataset unavailable, continuing without events")
			return
		}
		s.log.WithFields(logrus.Fields{"path": s.path, "events": len(s.events)}).Info("events dataset loaded")
	})
}

func (s *Source) read() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read events dataset: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(b, &records); err != nil {
		return fmt.Errorf("failed to decode events dataset: %w", err)
	}
	events, err := Resolve(records, s.aliases)
	if err != nil {
		return err
	}
	s.events = events
	return nil
}

// Err returns the load error, if any
func (s *Source) Err() error {
	s.load()
	return s.loadErr
}

// All returns every resolved event in dataset order
func (s *Source) All() []models.Event {
	s.load()
	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Query filters by zone and date; zero values disable a filter
func (s *Source) Query(zoneID int, date string) []models.Event {
	s.load()
	out := []models.Event{}
	for _, ev := range s.events {
		if zoneID != 0 && ev.ZoneID != zoneID {
			continue
		}
		if date != "" && ev.Date != date {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// ForDate returns every event on date across all zones
func (s *Source) ForDate(date string) []models.Event {
	return s.Query(0, date)
}

// ByID returns one resolved event
func (s *Source) ByID(id string) (models.Event, error) {
	s.load()
	for _, ev := range s.events {
		if ev.ID == id {
			return ev, nil
		}
	}
	return models.Event{}, fmt.Errorf("%w: %s", models.ErrEventNotFound, id)
}

// GroupByDate builds the per-zone view of one day
func (s *Source) GroupByDate(date string) models.EventsByDateResponse {
	events := s.ForDate(date)
	byZone := make(map[int][]models.Event)
	for _, ev := range events {
		byZone[ev.ZoneID] = append(byZone[ev.ZoneID], ev)
	}
	zones := make([]int, 0, len(byZone))
	for id := range byZone {
		zones = append(zones, id)
	}
	sort.Ints(zones)

	return models.EventsByDateResponse{
		Date:            date,
		TotalEvents:     len(events),
		ZonesAffected:   zones,
		Events:          events,
		ZonesWithEvents: byZone,
	}
}
