package repository

import "time"

// TimeRange is the display window requested by the dashboard.
type TimeRange string

const (
	Range1M TimeRange = "1M"
	Range3M TimeRange = "3M"
	Range1Y TimeRange = "1Y"
)

// IsValidTimeRange returns true if r is a supported range.
func IsValidTimeRange(r TimeRange) bool {
	switch r {
	case Range1M, Range3M, Range1Y:
		return true
	default:
		return false
	}
}

// DefaultTimeRange returns the default range.
func DefaultTimeRange() TimeRange { return Range1M }

// NormalizeTimeRange converts raw string to a valid range (or default).
func NormalizeTimeRange(s string) TimeRange {
	if s == "" {
		return DefaultTimeRange()
	}
	r := TimeRange(s)
	if IsValidTimeRange(r) {
		return r
	}
	return DefaultTimeRange()
}

// Bounds returns the calendar-date window ending on now's UTC date.
func (r TimeRange) Bounds(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch r {
	case Range3M:
		return end.AddDate(0, -3, 0), end
	case Range1Y:
		return end.AddDate(-1, 0, 0), end
	default:
		return end.AddDate(0, -1, 0), end
	}
}
