package analyzer

import (
	"errors"
	"fmt"
	"math"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/lapstat/internal/stats"
	"github.com/dbsmedya/lapstat/internal/types"
)

// ErrInvalidPercentile is returned when a requested percentile is outside [0, 100].
var ErrInvalidPercentile = errors.New("percentile must be between 0 and 100")

// DefaultPercentiles are used when Percentiles is called without arguments.
var DefaultPercentiles = []int{25, 50, 75}

// Metrics computes lap-time statistics over one lap set. Every summary
// statistic except FastestLap is taken over the outlier-filtered clean
// lap times.
type Metrics struct {
	laps     types.Laps
	clean    []float64
	filtered []float64
}

// ProgressionRow is one timed lap with the change from the previous timed lap.
type ProgressionRow struct {
	LapNumber int      `json:"lap_number"`
	LapTime   float64  `json:"lap_time"`
	Delta     *float64 `json:"delta"`
}

// NewMetrics prepares statistics for laps. laps is not modified.
func NewMetrics(laps types.Laps) *Metrics {
	clean := make([]float64, 0, len(laps))
	for _, lap := range laps {
		if s, ok := lap.Seconds(); ok {
			clean = append(clean, s)
		}
	}
	return &Metrics{
		laps:     laps,
		clean:    clean,
		filtered: stats.FilterOutliers(clean),
	}
}

// LapCount returns the number of laps in the set, timed or not.
func (m *Metrics) LapCount() int {
	return len(m.laps)
}

// CleanLapTimes returns the recorded lap times in seconds, in lap order.
func (m *Metrics) CleanLapTimes() []float64 {
	return append([]float64(nil), m.clean...)
}

// FilteredLapTimes returns the clean lap times that survive the outlier filter.
func (m *Metrics) FilteredLapTimes() []float64 {
	return append([]float64(nil), m.filtered...)
}

// AverageLapTime is the median of the filtered lap times, NaN if none remain.
func (m *Metrics) AverageLapTime() float64 {
	return stats.Median(m.filtered)
}

// FastestLap is the minimum over all clean lap times. Outliers count.
func (m *Metrics) FastestLap() float64 {
	return stats.Min(m.clean)
}

// Variance is the sample variance of the filtered lap times, NaN when
// fewer than two remain.
func (m *Metrics) Variance() float64 {
	return stats.SampleVariance(m.filtered)
}

// Percentiles returns the linearly interpolated percentile of the filtered
// lap times for each p, keyed in request order. Duplicate requests keep
// their first position. An empty filtered set yields an empty map.
func (m *Metrics) Percentiles(ps ...int) (*orderedmap.OrderedMap[int, float64], error) {
	if len(ps) == 0 {
		ps = DefaultPercentiles
	}
	for _, p := range ps {
		if p < 0 || p > 100 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidPercentile, p)
		}
	}

	result := orderedmap.NewOrderedMap[int, float64]()
	if len(m.filtered) == 0 {
		return result, nil
	}
	for _, p := range ps {
		if _, ok := result.Get(p); ok {
			continue
		}
		result.Set(p, stats.Percentile(m.filtered, float64(p)))
	}
	return result, nil
}

// Progression lists the timed laps by lap number with the change from the
// previous timed lap. The first row has no delta.
func (m *Metrics) Progression() []ProgressionRow {
	timed := m.laps.Timed().SortedByLapNumber()
	rows := make([]ProgressionRow, 0, len(timed))

	prev := math.NaN()
	for i, lap := range timed {
		secs, _ := lap.Seconds()
		row := ProgressionRow{LapNumber: lap.LapNumber, LapTime: secs}
		if i > 0 {
			delta := secs - prev
			row.Delta = &delta
		}
		rows = append(rows, row)
		prev = secs
	}
	return rows
}
