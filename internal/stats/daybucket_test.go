package stats

import (
	"testing"
	"time"
)

func TestForEachDayShape(t *testing.T) {
	now := time.Date(2024, 1, 11, 15, 30, 0, 0, time.UTC)

	for _, days := range []int{1, 7, 30, 365} {
		var dates []string
		var spans []time.Duration
		err := forEachDay(days, now, func(date string, start, end time.Time) error {
			dates = append(dates, date)
			spans = append(spans, end.Sub(start))
			return nil
		})
		if err != nil {
			t.Fatalf("forEachDay(%d) error = %v", days, err)
		}

		if len(dates) != days {
			t.Fatalf("forEachDay(%d) produced %d buckets, want %d", days, len(dates), days)
		}
		if got, want := dates[len(dates)-1], "2024-01-11"; got != want {
			t.Errorf("forEachDay(%d) last date = %s, want %s", days, got, want)
		}
		for i := 1; i < len(dates); i++ {
			if dates[i] <= dates[i-1] {
				t.Errorf("forEachDay(%d) dates not strictly increasing at %d: %s <= %s",
					days, i, dates[i], dates[i-1])
			}
		}
		for i, span := range spans {
			if span != 24*time.Hour {
				t.Errorf("forEachDay(%d) bucket %d spans %s, want 24h", days, i, span)
			}
		}
	}
}

func TestForEachDayBucketBoundaries(t *testing.T) {
	now := time.Date(2024, 1, 11, 23, 59, 59, 0, time.UTC)

	var starts []time.Time
	if err := forEachDay(2, now, func(date string, start, end time.Time) error {
		starts = append(starts, start)
		return nil
	}); err != nil {
		t.Fatalf("forEachDay() error = %v", err)
	}

	want := []time.Time{
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC),
	}
	for i := range want {
		if !starts[i].Equal(want[i]) {
			t.Errorf("bucket %d start = %s, want %s", i, starts[i], want[i])
		}
	}
}

func TestWindowStart(t *testing.T) {
	dayStart := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		window int
		want   time.Time
	}{
		{1, dayStart},
		{7, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{30, time.Date(2023, 12, 13, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		if got := windowStart(dayStart, tt.window); !got.Equal(tt.want) {
			t.Errorf("windowStart(window=%d) = %s, want %s", tt.window, got, tt.want)
		}
	}
}

func TestStreakDays(t *testing.T) {
	now := time.Date(2024, 1, 11, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"played yesterday and today", []string{"2024-01-11", "2024-01-10"}, 2},
		{"played yesterday only", []string{"2024-01-10"}, 0},
		{"played today only", []string{"2024-01-11"}, 1},
		{"gap breaks the streak", []string{"2024-01-11", "2024-01-09", "2024-01-08"}, 1},
		{"long unbroken run", []string{"2024-01-11", "2024-01-10", "2024-01-09", "2024-01-08"}, 4},
		{"no sessions", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := streakDays(tt.dates, now); got != tt.want {
				t.Errorf("streakDays(%v) = %d, want %d", tt.dates, got, tt.want)
			}
		})
	}
}
