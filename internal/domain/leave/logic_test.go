package leave

import (
	"errors"
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestRequestDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"single day", day(5), day(5), 1},
		{"work week", day(5), day(9), 5},
		{"full month", day(1), day(31), 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequestDays(tt.start, tt.end)
			if err != nil {
				t.Fatalf("RequestDays: %v", err)
			}
			if got != tt.want {
				t.Fatalf("RequestDays = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRequestDaysInvertedRange(t *testing.T) {
	if _, err := RequestDays(day(10), day(5)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("inverted range accepted, err = %v", err)
	}
}

func TestOverlapDays(t *testing.T) {
	periodStart, periodEnd := day(1), day(31)

	tests := []struct {
		name     string
		reqStart time.Time
		reqEnd   time.Time
		want     int
	}{
		{"fully inside", day(10), day(12), 3},
		{"spills before period", time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC), day(3), 3},
		{"spills after period", day(30), time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), 2},
		{"covers whole period", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), 31},
		{"entirely before", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC), 0},
		{"entirely after", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), 0},
		{"touches first day only", time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC), day(1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverlapDays(tt.reqStart, tt.reqEnd, periodStart, periodEnd)
			if got != tt.want {
				t.Fatalf("OverlapDays = %d, want %d", got, tt.want)
			}
		})
	}
}
