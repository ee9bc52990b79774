package calculate

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/Alias1177/fxsignal/models"
)

// Fixed indicator windows
const (
	SMAFastPeriod  = 20
	SMASlowPeriod  = 50
	RSIPeriod      = 14
	ATRPeriod      = 14
	ADXPeriod      = 14
	BBPeriod       = 20
	BBStdDev       = 2.0
	MinHistoryBars = SMASlowPeriod
)

// ComputeIndicators calculates every indicator for bars and returns the usable tail,
// i.e. the longest suffix in which no indicator is undefined.
func ComputeIndicators(bars []models.PriceBar) (models.IndicatorSet, error) {
	if len(bars) < MinHistoryBars {
		return nil, fmt.Errorf("%w: got %d bars, need at least %d", models.ErrInsufficientHistory, len(bars), MinHistoryBars)
	}
	if err := validateSeries(bars); err != nil {
		return nil, err
	}

	closes := lo.Map(bars, func(b models.PriceBar, _ int) float64 { return b.Close })
	highs := lo.Map(bars, func(b models.PriceBar, _ int) float64 { return b.High })
	lows := lo.Map(bars, func(b models.PriceBar, _ int) float64 { return b.Low })

	returns, logReturns := calculateReturns(closes)
	sma20 := calculateSMA(closes, SMAFastPeriod)
	sma50 := calculateSMA(closes, SMASlowPeriod)
	rsi := calculateRSI(closes, RSIPeriod)
	atr := calculateATR(highs, lows, closes, ATRPeriod)
	bbUpper, bbLower := calculateBollingerBands(closes, BBPeriod, BBStdDev)
	macd, macdSignal := calculateMACD(closes)
	adx := calculateADX(highs, lows, closes, ADXPeriod)

	rows := make([]models.IndicatorRow, len(bars))
	start := 0
	for i, b := range bars {
		rows[i] = models.IndicatorRow{
			Time:           b.Time,
			Open:           b.Open,
			High:           b.High,
			Low:            b.Low,
			Close:          b.Close,
			Returns:        returns[i],
			LogReturns:     logReturns[i],
			SMA20:          sma20[i],
			SMA50:          sma50[i],
			RSI:            rsi[i],
			ATR:            atr[i],
			BollingerUpper: bbUpper[i],
			BollingerLower: bbLower[i],
			MACD:           macd[i],
			MACDSignal:     macdSignal[i],
			ADX:            adx[i],
		}
		if !rowDefined(rows[i]) {
			start = i + 1
		}
	}

	if start >= len(rows) {
		return nil, fmt.Errorf("%w: no bar has every indicator defined", models.ErrInsufficientHistory)
	}

	return models.IndicatorSet(rows[start:]), nil
}

func calculateReturns(closes []float64) ([]float64, []float64) {
	n := len(closes)
	returns := make([]float64, n)
	logReturns := make([]float64, n)
	returns[0], logReturns[0] = math.NaN(), math.NaN()
	for i := 1; i < n; i++ {
		returns[i] = closes[i]/closes[i-1] - 1
		logReturns[i] = math.Log(closes[i] / closes[i-1])
	}
	return returns, logReturns
}

func validateSeries(bars []models.PriceBar) error {
	for i, b := range bars {
		if !isFinite(b.Open) || !isFinite(b.High) || !isFinite(b.Low) || !isFinite(b.Close) {
			return fmt.Errorf("%w: non-finite price at bar %d", models.ErrInvalidPriceSeries, i)
		}
		if b.Close <= 0 {
			return fmt.Errorf("%w: non-positive close at bar %d", models.ErrInvalidPriceSeries, i)
		}
		if i > 0 && !b.Time.After(bars[i-1].Time) {
			return fmt.Errorf("%w: bar %d at %s is not after %s",
				models.ErrInvalidPriceSeries, i, b.Time.Format("2006-01-02 15:04:05"), bars[i-1].Time.Format("2006-01-02 15:04:05"))
		}
	}
	return nil
}

func rowDefined(r models.IndicatorRow) bool {
	return lo.EveryBy([]float64{
		r.Returns, r.LogReturns, r.SMA20, r.SMA50, r.RSI, r.ATR,
		r.BollingerUpper, r.BollingerLower, r.MACD, r.MACDSignal, r.ADX,
	}, isFinite)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
