// Package metrics reduces raw run timings and per-item results into
// comparable performance figures. Every function here is pure and total.
package metrics

import (
	"math"
	"sort"
	"time"
)

// Speedup returns serial/other. A non-positive other yields +Inf.
func Speedup(serial, other time.Duration) float64 {
	if other <= 0 {
		return math.Inf(1)
	}
	return serial.Seconds() / other.Seconds()
}

// Efficiency expresses speedup per process as a percentage.
// Worker counts below one count as one.
func Efficiency(speedup float64, processes int) float64 {
	return speedup / float64(max(1, processes)) * 100
}

// Throughput returns items per second, or +Inf when elapsed is zero.
func Throughput(count int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return math.Inf(1)
	}
	return float64(count) / elapsed.Seconds()
}

// Median returns the representative time of repeated runs. For an even
// number of runs it averages the two middle values. Empty input yields 0.
func Median(times []time.Duration) time.Duration {
	if len(times) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(times))
	copy(sorted, times)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
