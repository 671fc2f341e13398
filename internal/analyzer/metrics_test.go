package analyzer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/lapstat/internal/types"
)

func TestMetrics_RaceScenario(t *testing.T) {
	m := NewMetrics(timesOf("VER", "RBR", 90, 85, 88, 95, 120, 87))

	assert.Equal(t, []float64{90, 85, 88, 95, 120, 87}, m.CleanLapTimes())
	assert.Equal(t, []float64{90, 85, 88, 95, 87}, m.FilteredLapTimes())
	assert.InDelta(t, 88.0, m.AverageLapTime(), 1e-9)
	assert.InDelta(t, 85.0, m.FastestLap(), 1e-9)
	assert.InDelta(t, 14.5, m.Variance(), 1e-9)
	assert.Equal(t, 6, m.LapCount())
}

func TestMetrics_FastestLapIgnoresFilter(t *testing.T) {
	// The 60s lap is far below the pack and gets filtered out of the
	// average, yet it is still the fastest lap.
	m := NewMetrics(timesOf("NOR", "MCL", 90, 90.2, 90.1, 89.9, 90.3, 60))

	assert.NotContains(t, m.FilteredLapTimes(), 60.0)
	assert.InDelta(t, 60.0, m.FastestLap(), 1e-9)
}

func TestMetrics_CleanLapTimesDropsUntimed(t *testing.T) {
	laps := types.Laps{
		lap("HAM", "MER", 1, 1, 95.5),
		untimed("HAM", "MER", 2, 1),
		lap("HAM", "MER", 3, 1, 94.25),
	}
	m := NewMetrics(laps)
	assert.Equal(t, []float64{95.5, 94.25}, m.CleanLapTimes())
	assert.Equal(t, 3, m.LapCount())
}

func TestMetrics_EmptyLapSet(t *testing.T) {
	for _, laps := range []types.Laps{nil, {}, {untimed("SAR", "WIL", 1, 1)}} {
		m := NewMetrics(laps)

		assert.True(t, math.IsNaN(m.AverageLapTime()))
		assert.True(t, math.IsNaN(m.FastestLap()))
		assert.True(t, math.IsNaN(m.Variance()))

		pct, err := m.Percentiles()
		require.NoError(t, err)
		assert.Equal(t, 0, pct.Len())

		assert.Empty(t, m.Progression())
	}
}

func TestMetrics_SingleLap(t *testing.T) {
	m := NewMetrics(timesOf("ALB", "WIL", 92.5))
	assert.Equal(t, 92.5, m.AverageLapTime())
	assert.Equal(t, 92.5, m.FastestLap())
	assert.True(t, math.IsNaN(m.Variance()))
}

func TestMetrics_Percentiles(t *testing.T) {
	m := NewMetrics(timesOf("VER", "RBR", 90, 85, 88, 95, 120, 87))

	pct, err := m.Percentiles()
	require.NoError(t, err)
	assert.Equal(t, []int{25, 50, 75}, pct.Keys())

	p25, _ := pct.Get(25)
	p50, _ := pct.Get(50)
	p75, _ := pct.Get(75)
	assert.InDelta(t, 87.0, p25, 1e-9)
	assert.InDelta(t, 88.0, p50, 1e-9)
	assert.InDelta(t, 90.0, p75, 1e-9)

	pct, err = m.Percentiles(90, 10, 90, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, []int{90, 10, 0, 100}, pct.Keys())
	p10, _ := pct.Get(10)
	p90, _ := pct.Get(90)
	p0, _ := pct.Get(0)
	p100, _ := pct.Get(100)
	assert.InDelta(t, 85.8, p10, 1e-9)
	assert.InDelta(t, 93.0, p90, 1e-9)
	assert.Equal(t, 85.0, p0)
	assert.Equal(t, 95.0, p100)
}

func TestMetrics_PercentilesOutOfRange(t *testing.T) {
	m := NewMetrics(timesOf("VER", "RBR", 90, 91))

	for _, p := range []int{-1, 101} {
		_, err := m.Percentiles(25, p)
		assert.ErrorIs(t, err, ErrInvalidPercentile)
	}

	// Range is checked even when there is nothing to compute.
	_, err := NewMetrics(nil).Percentiles(150)
	assert.ErrorIs(t, err, ErrInvalidPercentile)
}

func TestMetrics_Progression(t *testing.T) {
	laps := types.Laps{
		lap("LEC", "FER", 3, 1, 92.0),
		lap("LEC", "FER", 1, 1, 95.0),
		untimed("LEC", "FER", 4, 2),
		lap("LEC", "FER", 2, 1, 93.5),
		lap("LEC", "FER", 5, 2, 91.0),
	}

	rows := NewMetrics(laps).Progression()
	require.Len(t, rows, 4)

	assert.Equal(t, []int{1, 2, 3, 5}, []int{rows[0].LapNumber, rows[1].LapNumber, rows[2].LapNumber, rows[3].LapNumber})
	assert.Nil(t, rows[0].Delta)
	require.NotNil(t, rows[1].Delta)
	assert.InDelta(t, -1.5, *rows[1].Delta, 1e-9)
	assert.InDelta(t, -1.5, *rows[2].Delta, 1e-9)
	assert.InDelta(t, -1.0, *rows[3].Delta, 1e-9)

	// The lap set itself is left in its original order.
	assert.Equal(t, 3, laps[0].LapNumber)
}

func TestMetrics_ProgressionLengthMatchesTimedLaps(t *testing.T) {
	laps := timesOf("PER", "RBR", 96, 95.5, 95.2, 97.1, 94.8, 95.0, 94.9)
	rows := NewMetrics(laps).Progression()

	require.Len(t, rows, len(laps))
	assert.Nil(t, rows[0].Delta)
	for i := 1; i < len(rows); i++ {
		require.NotNil(t, rows[i].Delta)
		assert.InDelta(t, rows[i].LapTime-rows[i-1].LapTime, *rows[i].Delta, 1e-9)
	}
}

func TestMetrics_DoesNotMutateCallerSlices(t *testing.T) {
	m := NewMetrics(timesOf("VER", "RBR", 90, 85, 88))
	clean := m.CleanLapTimes()
	clean[0] = 0
	assert.Equal(t, 90.0, m.CleanLapTimes()[0])
}
