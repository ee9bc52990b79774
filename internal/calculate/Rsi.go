package calculate

import (
	"math"

	"github.com/Alias1177/fxsignal/internal/utils"
)

// calculateRSI uses simple rolling means of gains and losses over period changes.
// A window without losses reads 100.
func calculateRSI(closes []float64, period int) []float64 {
	n := len(closes)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	avgGain := utils.RollingMean(gains, period)
	avgLoss := utils.RollingMean(losses, period)

	rsi := utils.NaNSeries(n)
	// first window of real changes ends at index period
	for i := period; i < n; i++ {
		if avgLoss[i] == 0 {
			rsi[i] = 100.0
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		rsi[i] = 100.0 - (100.0 / (1.0 + rs))
	}

	return clampSeries(rsi, 0, 100)
}

func clampSeries(values []float64, low, high float64) []float64 {
	for i, v := range values {
		if !math.IsNaN(v) {
			values[i] = math.Min(high, math.Max(low, v))
		}
	}
	return values
}
