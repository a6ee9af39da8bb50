package history

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeDataset(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parking_data.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStats_AddAndStdDev(t *testing.T) {
	var s Stats
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Add(v)
	}
	if s.Count != 8 {
		t.Errorf("count = %d", s.Count)
	}
	if math.Abs(s.Mean-5) > 1e-9 {
		t.Errorf("mean = %f, want 5", s.Mean)
	}
	if math.Abs(s.StdDev()-2) > 1e-9 {
		t.Errorf("stddev = %f, want 2", s.StdDev())
	}
}

func TestStats_StdDevNeedsTwoObservations(t *testing.T) {
	var s Stats
	s.Add(42)
	if s.StdDev() != 0 {
		t.Errorf("stddev = %f, want 0", s.StdDev())
	}
}

func TestStats_MergeMatchesSequential(t *testing.T) {
	values := []float64{10, 20, 35, 40, 55, 61, 70, 90}

	var all, left, right Stats
	for i, v := range values {
		all.Add(v)
		if i < 3 {
			left.Add(v)
		} else {
			right.Add(v)
		}
	}
	left.Merge(right)

	if left.Count != all.Count {
		t.Errorf("count = %d, want %d", left.Count, all.Count)
	}
	if math.Abs(left.Mean-all.Mean) > 1e-9 || math.Abs(left.StdDev()-all.StdDev()) > 1e-9 {
		t.Errorf("merged mean/stddev = %f/%f, want %f/%f", left.Mean, left.StdDev(), all.Mean, all.StdDev())
	}

	var empty Stats
	empty.Merge(all)
	if empty != all {
		t.Error("merging into empty stats should copy")
	}
}

func TestDataset_Unconfigured(t *testing.T) {
	d := NewDataset("", nil)
	if d.Configured() {
		t.Error("empty path should be unconfigured")
	}
	if !d.HasZone("BF_001") {
		t.Error("unconfigured dataset should cover every zone")
	}
	if _, ok := d.Baseline("BF_001", 0, 8); ok {
		t.Error("unconfigured dataset has no baselines")
	}
}

func TestDataset_MissingFile(t *testing.T) {
	d := NewDataset(filepath.Join(t.TempDir(), "missing.json"), nil)
	if err := d.Load(); err == nil {
		t.Error("expected load error")
	}
	if !d.HasZone("BF_001") {
		t.Error("missing dataset should cover every zone like an unconfigured one")
	}
	if _, ok := d.Baseline("BF_001", 0, 8); ok {
		t.Error("missing dataset has no baselines")
	}
	if _, _, exists := d.FileInfo(); exists {
		t.Error("missing file should not exist")
	}
}

func TestDataset_LoadAndQuery(t *testing.T) {
	// 2026-02-02 is a Monday
	path := writeDataset(t, `[
		{"blockface_id": "BF_001", "datetime": "2026-02-02 08:00:00", "occupancy_rate": 0.8},
		{"blockface_id": "BF_001", "datetime": "2026-02-09T08:15:00", "occupancy_rate": 0.6},
		{"blockface_id": "BF_001", "datetime": "2026-02-07T14:00:00Z", "occupancy_rate": 0.3},
		{"blockface_id": "BF_120", "datetime": "2026-02-03 22:00", "occupancy_rate": 0.5},
		{"blockface_id": "BF_200", "datetime": "yesterday", "occupancy_rate": 0.5},
		{"blockface_id": "", "datetime": "2026-02-03 22:00", "occupancy_rate": 0.5}
	]`)

	d := NewDataset(path, nil)
	if err := d.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if d.rows != 4 || d.skipped != 2 {
		t.Errorf("rows=%d skipped=%d, want 4 and 2", d.rows, d.skipped)
	}

	if !d.HasZone("BF_001") || !d.HasZone("BF_120") {
		t.Error("BF_001 and BF_120 should be covered")
	}
	if d.HasZone("BF_200") {
		t.Error("BF_200 only had an unparseable row")
	}

	st, ok := d.Baseline("BF_001", 0, 8)
	if !ok {
		t.Fatal("missing Monday 08:00 baseline")
	}
	if st.Count != 2 || math.Abs(st.Mean-70) > 1e-9 {
		t.Errorf("baseline = %+v, want count 2 mean 70", st)
	}
	if _, ok := d.Baseline("BF_001", 5, 14); !ok {
		t.Error("missing Saturday 14:00 baseline")
	}

	sums := d.Summaries()
	if len(sums) != 2 || sums[0].ModelZoneID != "BF_001" || sums[0].Observations != 3 {
		t.Errorf("summaries = %+v", sums)
	}

	if _, size, exists := d.FileInfo(); !exists || size == 0 {
		t.Error("FileInfo should report the dataset file")
	}
}

func TestDataset_BadJSON(t *testing.T) {
	d := NewDataset(writeDataset(t, `{"not": "an array"}`), nil)
	if err := d.Load(); err == nil {
		t.Error("expected decode error")
	}
	// the first result sticks
	if err := d.Load(); err == nil {
		t.Error("expected cached decode error")
	}
	if !d.HasZone("BF_001") {
		t.Error("unreadable dataset should cover every zone")
	}
}
