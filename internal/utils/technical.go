package utils

import (
	"math"

	"github.com/samber/lo"
)

// NaNSeries returns a series of n undefined values
func NaNSeries(n int) []float64 {
	return lo.Times(n, func(int) float64 { return math.NaN() })
}

// TrueRange returns max(high-low, |high-prevClose|, |low-prevClose|).
// The first bar has no previous close and uses high-low.
func TrueRange(high, low, closing []float64) []float64 {
	tr := make([]float64, len(closing))
	for i := range closing {
		highLow := high[i] - low[i]
		if i == 0 {
			tr[i] = highLow
			continue
		}
		highPrevClose := math.Abs(high[i] - closing[i-1])
		lowPrevClose := math.Abs(low[i] - closing[i-1])
		tr[i] = math.Max(highLow, math.Max(highPrevClose, lowPrevClose))
	}
	return tr
}

// DirectionalMovement returns +DM and -DM per bar
func DirectionalMovement(high, low []float64) ([]float64, []float64) {
	plusDM := make([]float64, len(high))
	minusDM := make([]float64, len(high))

	for i := 1; i < len(high); i++ {
		upMove := high[i] - high[i-1]
		downMove := low[i-1] - low[i]

		// +DM occurs when the up move dominates and is positive
		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}
	}

	return plusDM, minusDM
}

// RollingSum sums each full window of period values.
// A window containing an undefined value is undefined.
func RollingSum(values []float64, period int) []float64 {
	out := NaNSeries(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		out[i] = lo.Sum(values[i-period+1 : i+1])
	}
	return out
}

// RollingMean averages each full window of period values
func RollingMean(values []float64, period int) []float64 {
	out := RollingSum(values, period)
	for i := range out {
		out[i] /= float64(period)
	}
	return out
}

// RollingStd is the sample standard deviation (n-1) of each full window
func RollingStd(values []float64, period int) []float64 {
	out := NaNSeries(len(values))
	if period < 2 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		window := values[i-period+1 : i+1]
		mean := lo.Sum(window) / float64(period)

		var variance float64
		for _, v := range window {
			variance += (v - mean) * (v - mean)
		}
		out[i] = math.Sqrt(variance / float64(period-1))
	}
	return out
}

// Mean is the arithmetic mean, 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return lo.Sum(values) / float64(len(values))
}
