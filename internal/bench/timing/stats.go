package timing

import (
	"math"
	"slices"
	"time"
)

// Stats summarises the per-call costs of one measurement.
type Stats struct {
	Min    time.Duration `json:"min"`
	Median time.Duration `json:"median"`
	Max    time.Duration `json:"max"`
	// Stddev is the sample standard deviation, zero below two samples.
	Stddev time.Duration `json:"stddev"`
}

// ComputeStats leaves samples untouched. The median of an even count is the
// mean of the two middle values.
func ComputeStats(samples []time.Duration) Stats {
	n := len(samples)
	if n == 0 {
		return Stats{}
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return Stats{
		Min:    sorted[0],
		Median: median,
		Max:    sorted[n-1],
		Stddev: stddev(sorted),
	}
}

// stddev uses Welford's update to stay stable for large nanosecond values.
func stddev(samples []time.Duration) time.Duration {
	if len(samples) < 2 {
		return 0
	}
	var mean, m2 float64
	for i, d := range samples {
		x := float64(d)
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}
	return time.Duration(math.Round(math.Sqrt(m2 / float64(len(samples)-1))))
}
