package prediction

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/Alias1177/fxsignal/models"
)

// RSI bounds for the oscillator signal
const (
	RSIOversold   = 30.0
	RSIOverbought = 70.0
)

// TechnicalResult is the technical sub-score with the signals that produced it
type TechnicalResult struct {
	Signal  models.Signal
	Emitted []models.Signal
	Factors []string
}

// TechnicalSignals evaluates the moving average, RSI, MACD and Bollinger rules on one row.
// Each rule emits +1, -1 or nothing.
func TechnicalSignals(row models.IndicatorRow) TechnicalResult {
	var res TechnicalResult
	emit := func(source string, score float64, factor string) {
		res.Emitted = append(res.Emitted, models.Signal{Source: source, Score: score, Confidence: 1})
		res.Factors = append(res.Factors, factor)
	}

	// Moving averages
	if row.Close > row.SMA20 && row.SMA20 > row.SMA50 {
		emit("MA", 1, "Price above SMA20 above SMA50")
	} else if row.Close < row.SMA20 && row.SMA20 < row.SMA50 {
		emit("MA", -1, "Price below SMA20 below SMA50")
	}

	// RSI
	if row.RSI < RSIOversold {
		emit("RSI", 1, fmt.Sprintf("RSI oversold (%.1f)", row.RSI))
	} else if row.RSI > RSIOverbought {
		emit("RSI", -1, fmt.Sprintf("RSI overbought (%.1f)", row.RSI))
	}

	// MACD
	if row.MACD > row.MACDSignal && row.MACD > 0 {
		emit("MACD", 1, "MACD above signal and zero")
	} else if row.MACD < row.MACDSignal && row.MACD < 0 {
		emit("MACD", -1, "MACD below signal and zero")
	}

	// Bollinger bands
	if row.Close < row.BollingerLower {
		emit("BB", 1, "Price below lower Bollinger band")
	} else if row.Close > row.BollingerUpper {
		emit("BB", -1, "Price above upper Bollinger band")
	}

	res.Signal = TechnicalScore(res.Emitted)
	return res
}

// TechnicalScore averages emitted signals; no signals means a flat score
func TechnicalScore(emitted []models.Signal) models.Signal {
	if len(emitted) == 0 {
		return models.Signal{Source: "technical"}
	}
	score := lo.SumBy(emitted, func(s models.Signal) float64 { return s.Score }) / float64(len(emitted))
	return models.Signal{
		Source:     "technical",
		Score:      score,
		Confidence: math.Min(math.Abs(score), 1),
	}
}

// CombineEnsemble averages predictor outputs weighted by their confidence.
// The ensemble confidence is the highest member confidence; zero total confidence gives a zero signal.
func CombineEnsemble(outputs []models.Signal) models.Signal {
	switch len(outputs) {
	case 0:
		return models.Signal{Source: "ensemble"}
	case 1:
		return outputs[0]
	}

	totalConf := lo.SumBy(outputs, func(s models.Signal) float64 { return s.Confidence })
	if totalConf <= 0 {
		return models.Signal{Source: "ensemble"}
	}

	weighted := lo.SumBy(outputs, func(s models.Signal) float64 { return s.Score * s.Confidence })
	maxConf := lo.MaxBy(outputs, func(a, b models.Signal) bool { return a.Confidence > b.Confidence }).Confidence

	return models.Signal{
		Source:     "ensemble",
		Score:      weighted / totalConf,
		Confidence: maxConf,
	}
}
