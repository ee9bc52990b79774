package calculate

import (
	"math"

	"github.com/Alias1177/fxsignal/internal/utils"
)

// calculateATR is the rolling mean of true range
func calculateATR(high, low, closing []float64, period int) []float64 {
	return utils.RollingMean(utils.TrueRange(high, low, closing), period)
}

// calculateADX smooths +DM, -DM and TR with rolling sums over period,
// then averages DX over another period.
func calculateADX(high, low, closing []float64, period int) []float64 {
	tr := utils.TrueRange(high, low, closing)
	plusDM, minusDM := utils.DirectionalMovement(high, low)

	smoothedTR := utils.RollingSum(tr, period)
	smoothedPlus := utils.RollingSum(plusDM, period)
	smoothedMinus := utils.RollingSum(minusDM, period)

	dx := utils.NaNSeries(len(closing))
	for i := range closing {
		if math.IsNaN(smoothedTR[i]) {
			continue
		}
		var plusDI, minusDI float64
		if smoothedTR[i] > 0 {
			plusDI = 100 * smoothedPlus[i] / smoothedTR[i]
			minusDI = 100 * smoothedMinus[i] / smoothedTR[i]
		}
		if plusDI+minusDI == 0 {
			dx[i] = 0
			continue
		}
		dx[i] = 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
	}

	return utils.RollingMean(dx, period)
}
