package analyzer

import (
	"sort"

	"github.com/dbsmedya/lapstat/internal/types"
)

// ComparisonRow aligns one lap of two lap sets.
type ComparisonRow struct {
	LapNumber  int     `json:"lap_number"`
	TimeA      float64 `json:"time_a"`
	TimeB      float64 `json:"time_b"`
	Difference float64 `json:"difference"`
}

// Compare aligns a and b by lap number. Only lap numbers timed in both sets
// produce a row. When stint is non-nil both sets are first restricted to
// that stint. If a set holds several laps with the same number (a team has
// two cars) the quickest one is used. Rows are ordered by lap number.
func Compare(a, b types.Laps, stint *int) []ComparisonRow {
	if stint != nil {
		a = a.PickStint(*stint)
		b = b.PickStint(*stint)
	}

	left := bestByLapNumber(a)
	right := bestByLapNumber(b)

	rows := make([]ComparisonRow, 0, len(left))
	for lapNumber, timeA := range left {
		timeB, ok := right[lapNumber]
		if !ok {
			continue
		}
		rows = append(rows, ComparisonRow{
			LapNumber:  lapNumber,
			TimeA:      timeA,
			TimeB:      timeB,
			Difference: timeA - timeB,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].LapNumber < rows[j].LapNumber
	})
	return rows
}

func bestByLapNumber(laps types.Laps) map[int]float64 {
	best := make(map[int]float64, len(laps))
	for _, lap := range laps {
		secs, ok := lap.Seconds()
		if !ok {
			continue
		}
		if cur, seen := best[lap.LapNumber]; !seen || secs < cur {
			best[lap.LapNumber] = secs
		}
	}
	return best
}
