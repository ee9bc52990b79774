package market

import (
	"github.com/samber/lo"

	"github.com/Alias1177/fxsignal/internal/utils"
	"github.com/Alias1177/fxsignal/models"
)

const (
	// TrendADXThreshold is the ADX level above which the market trends
	TrendADXThreshold = 25.0
	// VolatilityLookback is the window of the ATR% baseline
	VolatilityLookback = 20
	// VolatilitySpike is how far ATR% must exceed its baseline
	VolatilitySpike = 1.5
)

// DetectRegime classifies the market at the last row of set.
// The first matching rule wins: trend strength, then a volatility spike, else ranging.
func DetectRegime(set models.IndicatorSet) models.Regime {
	if len(set) == 0 {
		return models.RegimeUnknown
	}

	last := set.Last()
	if last.ADX > TrendADXThreshold {
		return models.RegimeTrending
	}

	if len(set) >= VolatilityLookback {
		if ratio := VolatilityRatio(set); ratio > VolatilitySpike {
			return models.RegimeVolatile
		}
	}

	return models.RegimeRanging
}

// VolatilityRatio is the last ATR% divided by its mean over the lookback window.
// It returns 1 when there is no baseline.
func VolatilityRatio(set models.IndicatorSet) float64 {
	window := set.Tail(VolatilityLookback)
	baseline := utils.Mean(lo.Map(window, func(r models.IndicatorRow, _ int) float64 { return r.ATRPercent() }))
	if baseline <= 0 {
		return 1
	}
	return set.Last().ATRPercent() / baseline
}
