package leave

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("end date before start date")

// RequestDays returns the inclusive day count between start and end.
func RequestDays(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, ErrInvalidRange
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// OverlapDays counts the calendar days of a leave request falling inside a
// payroll period. Both ranges are inclusive; the request is clamped to the
// period so leave spilling past either edge only counts the days within.
func OverlapDays(reqStart, reqEnd, periodStart, periodEnd time.Time) int {
	if reqStart.Before(periodStart) {
		reqStart = periodStart
	}
	if reqEnd.After(periodEnd) {
		reqEnd = periodEnd
	}
	if reqEnd.Before(reqStart) {
		return 0
	}
	return int(reqEnd.Sub(reqStart).Hours()/24) + 1
}
