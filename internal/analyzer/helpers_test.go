package analyzer

import (
	"context"

	"github.com/dbsmedya/lapstat/internal/session"
	"github.com/dbsmedya/lapstat/internal/types"
)

// lap builds a timed lap. A zero stint means no stint was recorded.
func lap(driver, team string, number, stint int, seconds float64) types.LapRecord {
	rec := types.LapRecord{
		Driver:    driver,
		Team:      team,
		LapNumber: number,
		LapTime:   types.DurationPtr(seconds),
	}
	if stint > 0 {
		rec.Stint = types.IntPtr(stint)
	}
	return rec
}

func untimed(driver, team string, number, stint int) types.LapRecord {
	rec := lap(driver, team, number, stint, 0)
	rec.LapTime = nil
	return rec
}

func timesOf(driver, team string, seconds ...float64) types.Laps {
	laps := make(types.Laps, 0, len(seconds))
	for i, s := range seconds {
		laps = append(laps, lap(driver, team, i+1, 1, s))
	}
	return laps
}

type fakeProvider struct {
	data  *session.Data
	err   error
	calls int
}

func (f *fakeProvider) Fetch(_ context.Context, _ session.Key) (*session.Data, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func newSession(p session.Provider) *session.Session {
	return session.Get(p, 2024, 1, "R")
}
