// Package types contains shared types used across multiple packages to avoid import cycles.
package types

import (
	"sort"
	"time"
)

// LapRecord is one completed lap as supplied by a session provider.
// Stint and LapTime are nil when the timing feed did not record them.
type LapRecord struct {
	Driver    string         // Three letter driver code, e.g. "VER"
	Team      string         // Team code, e.g. "RBR"
	LapNumber int            // 1-based lap number within the session
	Stint     *int           // Tyre stint the lap was driven on
	LapTime   *time.Duration // Lap duration
}

// Seconds returns the lap duration in seconds and whether it is known.
func (l LapRecord) Seconds() (float64, bool) {
	if l.LapTime == nil {
		return 0, false
	}
	return l.LapTime.Seconds(), true
}

// Laps is an ordered set of lap records.
type Laps []LapRecord

// Pick returns the laps matching keep, preserving order.
func (l Laps) Pick(keep func(LapRecord) bool) Laps {
	picked := make(Laps, 0, len(l))
	for _, lap := range l {
		if keep(lap) {
			picked = append(picked, lap)
		}
	}
	return picked
}

// PickDrivers returns the laps driven by the given driver code.
func (l Laps) PickDrivers(code string) Laps {
	return l.Pick(func(lap LapRecord) bool { return lap.Driver == code })
}

// PickTeams returns the laps driven for the given team code.
func (l Laps) PickTeams(code string) Laps {
	return l.Pick(func(lap LapRecord) bool { return lap.Team == code })
}

// PickStint returns the laps driven on the given stint. Laps without a
// recorded stint never match.
func (l Laps) PickStint(stint int) Laps {
	return l.Pick(func(lap LapRecord) bool { return lap.Stint != nil && *lap.Stint == stint })
}

// Timed returns the laps that carry a lap time.
func (l Laps) Timed() Laps {
	return l.Pick(func(lap LapRecord) bool { return lap.LapTime != nil })
}

// SortedByLapNumber returns a copy ordered by lap number. Laps sharing a
// number keep their relative order.
func (l Laps) SortedByLapNumber() Laps {
	sorted := make(Laps, len(l))
	copy(sorted, l)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LapNumber < sorted[j].LapNumber
	})
	return sorted
}
