package metrics

import (
	"testing"
	"time"
)

func TestComputePercentile(t *testing.T) {
	tests := []struct {
		name     string
		sorted   []time.Duration
		p        float64
		expected time.Duration
	}{
		{"empty", nil, 0.5, 0},
		{"single", []time.Duration{7 * time.Millisecond}, 0.99, 7 * time.Millisecond},
		{"p0", []time.Duration{1, 2, 3}, 0, 1},
		{"p100", []time.Duration{1, 2, 3}, 1, 3},
		{"p50 of ten", []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.5, 5},
		{"p90 of ten", []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePercentile(tt.sorted, tt.p)
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestComputeDurationMetrics(t *testing.T) {
	durations := []time.Duration{
		30 * time.Millisecond,
		10 * time.Millisecond,
		20 * time.Millisecond,
	}

	m := ComputeDurationMetrics(durations)

	if m.Min != 10*time.Millisecond {
		t.Errorf("expected min 10ms, got %v", m.Min)
	}
	if m.Max != 30*time.Millisecond {
		t.Errorf("expected max 30ms, got %v", m.Max)
	}
	if m.Avg != 20*time.Millisecond {
		t.Errorf("expected avg 20ms, got %v", m.Avg)
	}
	if m.P50 != 20*time.Millisecond {
		t.Errorf("expected p50 20ms, got %v", m.P50)
	}
}

func TestComputeDurationMetrics_Empty(t *testing.T) {
	if m := ComputeDurationMetrics(nil); m != (DurationMetrics{}) {
		t.Errorf("expected zero metrics, got %+v", m)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{500 * time.Microsecond, "500µs"},
		{42 * time.Millisecond, "42ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.expected {
			t.Errorf("FormatDuration(%v): expected %q, got %q", tt.d, tt.expected, got)
		}
	}
}
