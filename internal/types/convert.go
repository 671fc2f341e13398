package types

import (
	"database/sql"
	"time"
)

// DurationFromMillis converts a nullable millisecond column into a lap time.
func DurationFromMillis(ms sql.NullInt64) *time.Duration {
	if !ms.Valid {
		return nil
	}
	d := time.Duration(ms.Int64) * time.Millisecond
	return &d
}

// IntFromNull converts a nullable integer column.
func IntFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

// MillisFromDuration is the inverse of DurationFromMillis.
func MillisFromDuration(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	ms := d.Milliseconds()
	return &ms
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// DurationPtr returns a pointer to a duration of the given seconds.
func DurationPtr(seconds float64) *time.Duration {
	d := time.Duration(seconds * float64(time.Second))
	return &d
}
