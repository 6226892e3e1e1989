package indices

import (
	"math"
	"testing"
)

func TestTqmean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{
			name:     "empty window is undefined",
			values:   nil,
			expected: math.NaN(),
		},
		{
			name:     "all missing is undefined",
			values:   []float64{math.NaN(), math.NaN()},
			expected: math.NaN(),
		},
		{
			name:     "constant values never exceed their own mean",
			values:   []float64{100, 100, 100, 100},
			expected: 0.0,
		},
		{
			name:     "half the days above mean",
			values:   []float64{0, 0, 10, 10},
			expected: 0.5,
		},
		{
			name:     "missing values excluded from count and denominator",
			values:   []float64{0, math.NaN(), 0, 10, 10},
			expected: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tqmean(tt.values)
			if math.IsNaN(tt.expected) {
				if !math.IsNaN(got) {
					t.Errorf("Tqmean() = %v, want NaN", got)
				}
				return
			}
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Tqmean() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTqmeanRange(t *testing.T) {
	// The fraction must stay within [0, 1] for any non-empty window.
	windows := [][]float64{
		{1},
		{1, 2},
		{5, 5, 5},
		{1, 100, 1, 100, 1},
		{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7},
	}
	for _, w := range windows {
		got := Tqmean(w)
		if got < 0 || got > 1 {
			t.Errorf("Tqmean(%v) = %v, outside [0, 1]", w, got)
		}
	}
}

func TestRBIndex(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{
			name:     "fewer than two values is undefined",
			values:   []float64{42},
			expected: math.NaN(),
		},
		{
			name:     "constant flow has no flashiness",
			values:   []float64{10, 10, 10},
			expected: 0.0,
		},
		{
			name:     "alternating flow",
			values:   []float64{10, 20, 10, 20},
			expected: 30.0 / 60.0,
		},
		{
			name:     "missing values bridged",
			values:   []float64{10, math.NaN(), 20},
			expected: 10.0 / 30.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RBIndex(tt.values)
			if math.IsNaN(tt.expected) {
				if !math.IsNaN(got) {
					t.Errorf("RBIndex() = %v, want NaN", got)
				}
				return
			}
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("RBIndex() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRBIndexOrderSensitive(t *testing.T) {
	// Path length depends on the day-to-day sequence, so sorting the
	// same values must change the result.
	dateOrder := []float64{10, 30, 10, 30, 10}
	sorted := []float64{10, 10, 10, 30, 30}
	if RBIndex(dateOrder) == RBIndex(sorted) {
		t.Error("RBIndex should depend on value order")
	}
	if got := RBIndex(dateOrder); got < 0 {
		t.Errorf("RBIndex() = %v, want non-negative", got)
	}
}

func TestSevenQ(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{
			name:     "six values is undefined",
			values:   []float64{10, 20, 10, 20, 10, 20},
			expected: math.NaN(),
		},
		{
			name:     "exactly seven values averages the whole window",
			values:   []float64{10, 20, 10, 20, 10, 20, 10},
			expected: 100.0 / 7.0,
		},
		{
			name:     "constant run of low flow found",
			values:   []float64{50, 50, 10, 10, 10, 10, 10, 10, 10, 50, 50, 50, 50, 50},
			expected: 10.0,
		},
		{
			name:     "constant series",
			values:   []float64{5, 5, 5, 5, 5, 5, 5, 5},
			expected: 5.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SevenQ(tt.values)
			if math.IsNaN(tt.expected) {
				if !math.IsNaN(got) {
					t.Errorf("SevenQ() = %v, want NaN", got)
				}
				return
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("SevenQ() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExceedThreeMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected int
	}{
		{
			name:     "empty window counts zero",
			values:   nil,
			expected: 0,
		},
		{
			name:     "constant values never exceed three times their median",
			values:   []float64{10, 10, 10},
			expected: 0,
		},
		{
			name:     "single spike",
			values:   []float64{10, 10, 10, 10, 31},
			expected: 1,
		},
		{
			name:     "boundary value not counted",
			values:   []float64{10, 10, 30},
			expected: 0,
		},
		{
			name:     "missing values ignored",
			values:   []float64{10, math.NaN(), 10, 100},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExceedThreeMedian(tt.values)
			if got != tt.expected {
				t.Errorf("ExceedThreeMedian() = %d, want %d", got, tt.expected)
			}
			if got < 0 || got > len(tt.values) {
				t.Errorf("ExceedThreeMedian() = %d, outside [0, len]", got)
			}
		})
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"odd count", []float64{3, 1, 2}, 2},
		{"even count uses midpoint", []float64{1, 2, 3, 4}, 2.5},
		{"empty is undefined", nil, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Median(tt.values)
			if math.IsNaN(tt.expected) {
				if !math.IsNaN(got) {
					t.Errorf("Median() = %v, want NaN", got)
				}
				return
			}
			if got != tt.expected {
				t.Errorf("Median() = %v, want %v", got, tt.expected)
			}
		})
	}
}
