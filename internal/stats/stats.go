// Package stats implements the lap-time statistics shared by the analyzers.
//
// All functions treat their input as read-only and are total: empty input
// yields NaN (or an empty slice) instead of panicking.
package stats

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

// OutlierThreshold is how many population standard deviations a lap time
// may sit from the median before FilterOutliers discards it.
const OutlierThreshold = 1.5

// FilterOutliers returns the values within OutlierThreshold population
// standard deviations of the median, in input order.
func FilterOutliers(xs []float64) []float64 {
	kept := make([]float64, 0, len(xs))
	if len(xs) == 0 {
		return kept
	}

	median := Median(xs)
	limit := OutlierThreshold * PopulationStdDev(xs)
	for _, x := range xs {
		if math.Abs(x-median) <= limit {
			kept = append(kept, x)
		}
	}
	return kept
}

// Median returns the middle value of xs, averaging the two middle values
// for even lengths.
func Median(xs []float64) float64 {
	return Percentile(xs, 50)
}

// Percentile returns the p-th percentile (0-100) of xs using linear
// interpolation between closest ranks.
func Percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 || math.IsNaN(p) {
		return math.NaN()
	}

	sorted := sortedCopy(xs)
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		return sorted[0]
	}
	if hi >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// PopulationStdDev returns the standard deviation of xs with an n
// denominator.
func PopulationStdDev(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return 0
	}
	return math.Sqrt(stats.Variance(xs) * float64(n-1) / float64(n))
}

// SampleVariance returns the variance of xs with an n-1 denominator. It is
// NaN when fewer than two values are given.
func SampleVariance(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	return stats.Variance(xs)
}

// Mean returns the arithmetic mean of xs.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stats.Mean(xs)
}

// Min returns the smallest value of xs.
func Min(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	lo, _ := stats.Bounds(xs)
	return lo
}

func sortedCopy(xs []float64) []float64 {
	return stats.Sample{Xs: xs}.Copy().Sort().Xs
}
