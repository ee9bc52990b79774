package utils

import (
	"math"
	"testing"
)

func sameSeries(got, want []float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if math.IsNaN(want[i]) {
			if !math.IsNaN(got[i]) {
				return false
			}
			continue
		}
		if math.Abs(got[i]-want[i]) > 1e-12 {
			return false
		}
	}
	return true
}

func TestRollingFunctions(t *testing.T) {
	nan := math.NaN()
	values := []float64{1, 2, 3, 4, 5}

	tests := []struct {
		name string
		got  []float64
		want []float64
	}{
		{"sum", RollingSum(values, 3), []float64{nan, nan, 6, 9, 12}},
		{"mean", RollingMean(values, 2), []float64{nan, 1.5, 2.5, 3.5, 4.5}},
		{"std", RollingStd(values, 3), []float64{nan, nan, 1, 1, 1}},
		{"undefined input propagates", RollingSum([]float64{nan, 1, 2, 3}, 2), []float64{nan, nan, 3, 5}},
		{"period longer than series", RollingMean(values, 6), []float64{nan, nan, nan, nan, nan}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !sameSeries(tt.got, tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestTrueRange(t *testing.T) {
	high := []float64{1.10, 1.12, 1.09}
	low := []float64{1.08, 1.11, 1.07}
	closing := []float64{1.09, 1.115, 1.08}

	want := []float64{0.02, 0.03, 0.045}
	if got := TrueRange(high, low, closing); !sameSeries(got, want) {
		t.Errorf("TrueRange() = %v, want %v", got, want)
	}
}

func TestDirectionalMovement(t *testing.T) {
	high := []float64{10, 12, 11, 11.5}
	low := []float64{9, 10, 8, 8.5}

	plus, minus := DirectionalMovement(high, low)
	if !sameSeries(plus, []float64{0, 2, 0, 0.5}) {
		t.Errorf("+DM = %v", plus)
	}
	if !sameSeries(minus, []float64{0, 0, 2, 0}) {
		t.Errorf("-DM = %v", minus)
	}
}

func TestMean(t *testing.T) {
	if Mean(nil) != 0 {
		t.Error("Mean(nil) should be 0")
	}
	if got := Mean([]float64{1, 2, 3, 6}); got != 3 {
		t.Errorf("Mean() = %v, want 3", got)
	}
}
