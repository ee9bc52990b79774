package calculate

import (
	"math"

	"github.com/cinar/indicator"
)

// calculateSMA returns the simple moving average, undefined until a full window exists
func calculateSMA(closes []float64, period int) []float64 {
	sma := indicator.Sma(period, closes)
	for i := 0; i < period-1 && i < len(sma); i++ {
		sma[i] = math.NaN()
	}
	return sma
}
