package stats

import (
	"testing"
)

func TestNormalizeDurations(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{
			name: "seconds stay untouched",
			in:   []float64{60, 120, 300},
			want: []float64{60, 120, 300},
		},
		{
			name: "milliseconds detected and converted",
			in:   []float64{60000, 120000, 300000},
			want: []float64{60, 120, 300},
		},
		{
			name: "zeros ignored when deciding the unit",
			in:   []float64{0, 0, 90000},
			want: []float64{0, 0, 90},
		},
		{
			name: "boundary average stays seconds",
			in:   []float64{3600, 3600},
			want: []float64{3600, 3600},
		},
		{
			name: "empty input",
			in:   []float64{},
			want: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDurations(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("NormalizeDurations() length = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("NormalizeDurations()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeSeconds(t *testing.T) {
	if got := normalizeSeconds(90); got != 90 {
		t.Errorf("normalizeSeconds(90) = %v, want 90", got)
	}
	if got := normalizeSeconds(90000); got != 90 {
		t.Errorf("normalizeSeconds(90000) = %v, want 90", got)
	}
}

func TestSecondsToMinutes(t *testing.T) {
	if got := secondsToMinutes(90); got != 1.5 {
		t.Errorf("secondsToMinutes(90) = %v, want 1.5", got)
	}
	if got := secondsToMinutes(0); got != 0 {
		t.Errorf("secondsToMinutes(0) = %v, want 0", got)
	}
}

func TestRatioZeroDenominator(t *testing.T) {
	if got := ratio(5, 0); got != 0 {
		t.Errorf("ratio(5, 0) = %v, want 0", got)
	}
	if got := pct(3, 0); got != 0 {
		t.Errorf("pct(3, 0) = %v, want 0", got)
	}
	if got := pct(1, 3); got != 33.3 {
		t.Errorf("pct(1, 3) = %v, want 33.3", got)
	}
}

func TestMean(t *testing.T) {
	if got := mean(nil); got != 0 {
		t.Errorf("mean(nil) = %v, want 0", got)
	}
	if got := mean([]float64{6, 8, 10}); got != 8 {
		t.Errorf("mean([6 8 10]) = %v, want 8", got)
	}
}
