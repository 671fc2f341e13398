package analyzer

import (
	"encoding/json"
	"math"
)

// Result summarises one analyzer's lap set. Statistics that are undefined
// for the lap set are NaN and marshal to JSON null.
type Result struct {
	Identifier      string
	Kind            Kind
	Year            int
	Round           int
	Session         string
	EventName       string
	LapCount        int
	AverageLapTime  float64 // seconds
	FastestLap      float64 // seconds
	LapTimeVariance float64 // seconds squared
}

type resultJSON struct {
	Identifier      string   `json:"identifier"`
	Kind            Kind     `json:"kind"`
	Year            int      `json:"year"`
	Round           int      `json:"round"`
	Session         string   `json:"session"`
	EventName       string   `json:"event_name,omitempty"`
	LapCount        int      `json:"laps_count"`
	AverageLapTime  *float64 `json:"average_lap_time"`
	FastestLap      *float64 `json:"fastest_lap"`
	LapTimeVariance *float64 `json:"lap_time_variance"`
}

// MarshalJSON encodes NaN statistics as null.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		Identifier:      r.Identifier,
		Kind:            r.Kind,
		Year:            r.Year,
		Round:           r.Round,
		Session:         r.Session,
		EventName:       r.EventName,
		LapCount:        r.LapCount,
		AverageLapTime:  nullable(r.AverageLapTime),
		FastestLap:      nullable(r.FastestLap),
		LapTimeVariance: nullable(r.LapTimeVariance),
	})
}

// UnmarshalJSON decodes null statistics as NaN.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw resultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Result{
		Identifier:      raw.Identifier,
		Kind:            raw.Kind,
		Year:            raw.Year,
		Round:           raw.Round,
		Session:         raw.Session,
		EventName:       raw.EventName,
		LapCount:        raw.LapCount,
		AverageLapTime:  orNaN(raw.AverageLapTime),
		FastestLap:      orNaN(raw.FastestLap),
		LapTimeVariance: orNaN(raw.LapTimeVariance),
	}
	return nil
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
