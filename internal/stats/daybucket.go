// Package stats implements the statistics aggregation services behind the
// dashboard endpoints: gameplay metrics, learning metrics and the teacher
// dashboard. Each service reads the relational data through a small store
// interface and memoises results in its own TTL cache namespace.
package stats

import "time"

const isoDate = "2006-01-02"

// Cache namespace defaults. The teacher dashboard is per-teacher and more
// volatile, so it refreshes faster.
const (
	gameplayTTL = 5 * time.Minute
	learningTTL = 5 * time.Minute
	teacherTTL  = 2 * time.Minute

	clasesTTL  = 10 * time.Minute
	alumnosTTL = time.Minute
)

// midnight truncates t to the start of its calendar day
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// forEachDay invokes fn once per calendar day for the trailing window of
// `days` days ending today (inclusive), oldest first. fn receives the ISO
// date string plus the half-open [start, end) bucket boundaries.
func forEachDay(days int, now time.Time, fn func(date string, start, end time.Time) error) error {
	today := midnight(now)
	for i := days - 1; i >= 0; i-- {
		start := today.AddDate(0, 0, -i)
		end := start.AddDate(0, 0, 1)
		if err := fn(start.Format(isoDate), start, end); err != nil {
			return err
		}
	}
	return nil
}

// windowStart widens a day bucket's lower bound for rolling-window metrics
// (WAU uses window 7, MAU 30): the window covers the bucket's day plus the
// window-1 days before it.
func windowStart(dayStart time.Time, window int) time.Time {
	return dayStart.AddDate(0, 0, -(window - 1))
}

// streakDays counts consecutive calendar days ending today on which the
// given set of ISO dates has an entry. A user who did not play today has a
// streak of zero regardless of history.
func streakDays(dates []string, now time.Time) int {
	played := make(map[string]bool, len(dates))
	for _, d := range dates {
		played[d] = true
	}

	streak := 0
	for day := midnight(now); played[day.Format(isoDate)]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}
