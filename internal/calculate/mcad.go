package calculate

import "github.com/cinar/indicator"

// calculateMACD returns EMA(12)-EMA(26) and its EMA(9) signal line.
// EMAs are seeded with the first value so both series are defined from the first bar.
func calculateMACD(closes []float64) ([]float64, []float64) {
	if len(closes) == 0 {
		return nil, nil
	}
	return indicator.Macd(closes)
}
