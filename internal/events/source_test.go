package events

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/you/parkcast/models"
)

var testAliases = map[string]int{
	"BF_045": 6, "BF_046": 7, "BF_047": 6, "BF_048": 7,
	"BF_120": 4, "BF_121": 8, "BF_122": 8,
}

const testDataset = `[
	{
		"event_id": "NFL_2026_001",
		"event_name": "Seahawks vs 49ers",
		"event_type": "sports",
		"venue": "Lumen Field",
		"date": "2026-09-13",
		"start_time": "13:25",
		"expected_attendance": 68000,
		"nearby_zones": ["BF_045", "BF_046", "BF_047", "BF_048"],
		"impact_level": "very_high"
	},
	{
		"event_id": "CONC_001",
		"event_name": "Capitol Hill Block Party",
		"event_type": "festival",
		"venue": "Pike/Pine",
		"date": "2026-09-13",
		"start_time": "20:00",
		"end_time": "22:30",
		"expected_attendance": 9000,
		"nearby_zones": ["BF_120", "BF_121", "BF_999"],
		"impact_level": "medium"
	}
]`

func writeEvents(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSource_ResolvesPerZone(t *testing.T) {
	src := NewSource(writeEvents(t, testDataset), testAliases, nil)
	if err := src.Err(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	all := src.All()
	// 4 stadium aliases collapse to zones 6 and 7, concert hits 4 and 8
	if len(all) != 4 {
		t.Fatalf("got %d events, want 4: %+v", len(all), all)
	}

	game := all[0]
	if game.ID != "NFL_2026_001_6" || game.ZoneID != 6 {
		t.Errorf("first event = %s zone %d", game.ID, game.ZoneID)
	}
	if game.StartHour != 13 || game.EndHour != 23 {
		t.Errorf("window = %d-%d, want 13-23", game.StartHour, game.EndHour)
	}
	if game.Impact != models.ImpactVeryHigh {
		t.Errorf("impact = %q, want %q", game.Impact, models.ImpactVeryHigh)
	}

	concert := all[2]
	if concert.EndHour != 22 || concert.Impact != models.ImpactMedium {
		t.Errorf("concert = %+v", concert)
	}
}

func TestSource_Queries(t *testing.T) {
	src := NewSource(writeEvents(t, testDataset), testAliases, nil)

	if got := src.Query(6, "2026-09-13"); len(got) != 1 {
		t.Errorf("zone 6 events = %d, want 1", len(got))
	}
	if got := src.Query(6, "2026-09-14"); got == nil || len(got) != 0 {
		t.Errorf("other day should be empty non-nil, got %v", got)
	}
	if got := src.Query(0, ""); len(got) != 4 {
		t.Errorf("unfiltered = %d, want 4", len(got))
	}

	ev, err := src.ByID("CONC_001_8")
	if err != nil || ev.ZoneID != 8 {
		t.Errorf("ByID = %+v, %v", ev, err)
	}
	if _, err := src.ByID("nope"); !errors.Is(err, models.ErrEventNotFound) {
		t.Errorf("err = %v, want ErrEventNotFound", err)
	}
}

func TestSource_GroupByDate(t *testing.T) {
	src := NewSource(writeEvents(t, testDataset), testAliases, nil)
	resp := src.GroupByDate("2026-09-13")

	if resp.TotalEvents != 4 {
		t.Errorf("total = %d", resp.TotalEvents)
	}
	want := []int{4, 6, 7, 8}
	if len(resp.ZonesAffected) != len(want) {
		t.Fatalf("zones = %v, want %v", resp.ZonesAffected, want)
	}
	for i := range want {
		if resp.ZonesAffected[i] != want[i] {
			t.Errorf("zones = %v, want %v", resp.ZonesAffected, want)
			break
		}
	}
	if len(resp.ZonesWithEvents[6]) != 1 {
		t.Errorf("zone 6 group = %v", resp.ZonesWithEvents[6])
	}
}

func TestSource_MissingFileIsEmpty(t *testing.T) {
	src := NewSource(filepath.Join(t.TempDir(), "missing.json"), testAliases, nil)
	if src.Err() == nil {
		t.Error("expected load error")
	}
	if len(src.All()) != 0 {
		t.Error("missing dataset should yield no events")
	}
}

func TestSource_NoPath(t *testing.T) {
	src := NewSource("", nil, nil)
	if src.Err() != nil || len(src.All()) != 0 {
		t.Error("unconfigured source should be empty without error")
	}
}

func TestResolve_BadStartTime(t *testing.T) {
	_, err := Resolve([]Record{{EventID: "x", StartTime: "noon", NearbyZones: []string{"BF_045"}}}, testAliases)
	if err == nil {
		t.Error("expected error for bad start time")
	}
}

func TestStaticSource(t *testing.T) {
	src := NewStaticSource([]models.Event{
		{ID: "a", ZoneID: 1, Date: "2026-02-07", StartHour: 9, EndHour: 11, Impact: models.ImpactLow},
	})
	if got := src.ForDate("2026-02-07"); len(got) != 1 {
		t.Errorf("ForDate = %v", got)
	}
}
