package stats

import "math"

// Stored durations are seconds, except for historical rows written in
// milliseconds by an old client. The magnitude heuristic below is kept for
// compatibility with that data: no session plausibly lasts over an hour on
// average, so an average above 3600 means the batch is in milliseconds.
const millisThreshold = 3600

// normalizeSeconds converts a single duration aggregate to seconds
func normalizeSeconds(v float64) float64 {
	if v > millisThreshold {
		return v / 1000
	}
	return v
}

// NormalizeDurations converts a batch of stored duration samples to seconds.
// The unit is decided once for the whole batch from the average of the
// non-zero samples, so a single long outlier does not split the batch across
// units.
func NormalizeDurations(vals []float64) []float64 {
	var sum float64
	var n int
	for _, v := range vals {
		if v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 || sum/float64(n) <= millisThreshold {
		return vals
	}

	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = v / 1000
	}
	return out
}

// secondsToMinutes converts seconds to minutes rounded to one decimal
func secondsToMinutes(seconds float64) float64 {
	return round1(seconds / 60)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ratio returns num/den, or 0 when the denominator is zero. Dashboard
// metrics never report NaN for empty data sets.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// pct returns num/den as a percentage rounded to one decimal, 0 when den is 0
func pct(num, den float64) float64 {
	return round1(ratio(num, den) * 100)
}
