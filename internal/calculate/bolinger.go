package calculate

import "github.com/Alias1177/fxsignal/internal/utils"

// calculateBollingerBands returns the upper and lower bands around the SMA
func calculateBollingerBands(closes []float64, period int, stdDev float64) ([]float64, []float64) {
	middle := calculateSMA(closes, period)
	sd := utils.RollingStd(closes, period)

	upper := make([]float64, len(closes))
	lower := make([]float64, len(closes))
	for i := range closes {
		upper[i] = middle[i] + sd[i]*stdDev
		lower[i] = middle[i] - sd[i]*stdDev
	}

	return upper, lower
}
