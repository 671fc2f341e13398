package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testLaps() Laps {
	return Laps{
		{Driver: "VER", Team: "RBR", LapNumber: 2, Stint: IntPtr(1), LapTime: DurationPtr(91.2)},
		{Driver: "PER", Team: "RBR", LapNumber: 1, Stint: IntPtr(1), LapTime: DurationPtr(95.0)},
		{Driver: "VER", Team: "RBR", LapNumber: 1, Stint: IntPtr(1), LapTime: DurationPtr(94.1)},
		{Driver: "NOR", Team: "MCL", LapNumber: 1, Stint: nil, LapTime: nil},
		{Driver: "VER", Team: "RBR", LapNumber: 3, Stint: IntPtr(2), LapTime: nil},
	}
}

func TestLapRecord_Seconds(t *testing.T) {
	t.Run("timed lap", func(t *testing.T) {
		secs, ok := LapRecord{LapTime: DurationPtr(88.25)}.Seconds()
		assert.True(t, ok)
		assert.InDelta(t, 88.25, secs, 1e-9)
	})

	t.Run("untimed lap", func(t *testing.T) {
		_, ok := LapRecord{}.Seconds()
		assert.False(t, ok)
	})
}

func TestLaps_PickDrivers(t *testing.T) {
	laps := testLaps()

	ver := laps.PickDrivers("VER")
	assert.Len(t, ver, 3)
	for _, lap := range ver {
		assert.Equal(t, "VER", lap.Driver)
	}

	assert.Empty(t, laps.PickDrivers("HAM"))
	// Original set is untouched
	assert.Len(t, laps, 5)
}

func TestLaps_PickTeams(t *testing.T) {
	laps := testLaps()

	assert.Len(t, laps.PickTeams("RBR"), 4)
	assert.Len(t, laps.PickTeams("MCL"), 1)
	assert.Empty(t, laps.PickTeams("FER"))
}

func TestLaps_PickStint(t *testing.T) {
	laps := testLaps()

	assert.Len(t, laps.PickStint(1), 3)
	assert.Len(t, laps.PickStint(2), 1)
	// Laps without a stint never match
	assert.Empty(t, laps.PickDrivers("NOR").PickStint(1))
}

func TestLaps_Timed(t *testing.T) {
	timed := testLaps().Timed()
	assert.Len(t, timed, 3)
	for _, lap := range timed {
		assert.NotNil(t, lap.LapTime)
	}
}

func TestLaps_SortedByLapNumber(t *testing.T) {
	laps := testLaps()
	sorted := laps.SortedByLapNumber()

	numbers := make([]int, 0, len(sorted))
	for _, lap := range sorted {
		numbers = append(numbers, lap.LapNumber)
	}
	assert.Equal(t, []int{1, 1, 1, 2, 3}, numbers)

	// Stable for equal lap numbers
	assert.Equal(t, "PER", sorted[0].Driver)
	assert.Equal(t, "VER", sorted[1].Driver)
	assert.Equal(t, "NOR", sorted[2].Driver)

	// Input order is preserved
	assert.Equal(t, 2, laps[0].LapNumber)
	assert.Equal(t, 91200*time.Millisecond, *laps[0].LapTime)
}
