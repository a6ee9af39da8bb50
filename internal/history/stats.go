package history

import "math"

// Stats holds running occupancy statistics using Welford's online algorithm,
// so a large dataset is summarized in constant space per slot.
type Stats struct {
	Count int     // number of observations
	Mean  float64 // running mean occupancy (0-100)
	M2    float64 // sum of squared differences from the mean
}

// Add folds one observation into the running statistics
func (s *Stats) Add(value float64) {
	s.Count++
	delta := value - s.Mean
	s.Mean += delta / float64(s.Count)
	s.M2 += delta * (value - s.Mean)
}

// Merge combines two independent summaries (Chan et al. parallel update)
func (s *Stats) Merge(other Stats) {
	if other.Count == 0 {
		return
	}
	if s.Count == 0 {
		*s = other
		return
	}
	n := s.Count + other.Count
	delta := other.Mean - s.Mean
	s.Mean += delta * float64(other.Count) / float64(n)
	s.M2 += other.M2 + delta*delta*float64(s.Count)*float64(other.Count)/float64(n)
	s.Count = n
}

// StdDev returns the population standard deviation.
// Returns 0 with fewer than 2 observations.
func (s *Stats) StdDev() float64 {
	if s.Count < 2 {
		return 0
	}
	return math.Sqrt(s.M2 / float64(s.Count))
}
