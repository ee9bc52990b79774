package risk

import (
	"math"

	"github.com/Alias1177/fxsignal/internal/utils"
	"github.com/Alias1177/fxsignal/models"
)

const (
	// VolatilityLookback is the window used by the dynamic stop-loss
	VolatilityLookback = 20
	// VolatilityScale converts relative volatility into a stop widening factor
	VolatilityScale = 5.0

	ratioTolerance = 1e-9
)

// Assessment holds the risk-adjusted levels for a fused decision
type Assessment struct {
	Direction          models.Direction `json:"direction"`
	Confidence         float64          `json:"confidence"`
	EntryPrice         float64          `json:"entry_price"`
	StopLoss           float64          `json:"stop_loss"`
	TakeProfit         float64          `json:"take_profit"`
	RiskReward         float64          `json:"risk_reward"`
	ComputedRiskReward float64          `json:"computed_risk_reward"` // before any veto
	VolatilityFactor   float64          `json:"volatility_factor"`
	PositionRisk       float64          `json:"position_risk"`
	Vetoed             bool             `json:"vetoed"`
}

// Adjust derives entry, stop and target for a direction using the last ATR.
// A configured minimum risk-reward overrides the direction after fusion.
func Adjust(direction models.Direction, confidence float64, set models.IndicatorSet, policy models.RiskPolicy) Assessment {
	last := set.Last()
	res := Assessment{
		Direction:        direction,
		Confidence:       confidence,
		EntryPrice:       last.Close,
		VolatilityFactor: 1,
	}
	if direction == models.DirectionNeutral {
		return res
	}

	stopMult, targetMult := policy.StopATRMultiple, policy.TargetATRMultiple
	if stopMult <= 0 {
		stopMult = models.DefaultStopATRMultiple
	}
	if targetMult <= 0 {
		targetMult = models.DefaultTargetATRMultiple
	}

	stopDistance := last.ATR * stopMult
	targetDistance := last.ATR * targetMult

	if policy.DynamicStopLoss {
		res.VolatilityFactor = 1 + RelativeVolatility(set)*VolatilityScale
		baseRatio := targetMult / stopMult
		stopDistance *= res.VolatilityFactor
		targetDistance = stopDistance * baseRatio
	}

	res.StopLoss, res.TakeProfit = levels(direction, res.EntryPrice, stopDistance, targetDistance)
	res.RiskReward = RiskRewardRatio(res.EntryPrice, res.StopLoss, res.TakeProfit)
	res.ComputedRiskReward = res.RiskReward

	if policy.MinRiskReward > 0 && res.RiskReward < policy.MinRiskReward-ratioTolerance {
		res.Direction = models.DirectionNeutral
		res.Confidence = 0
		res.StopLoss, res.TakeProfit, res.RiskReward = 0, 0, 0
		res.Vetoed = true
		return res
	}

	maxFraction := policy.MaxRiskPerTrade / 100
	if policy.UseKelly {
		res.PositionRisk = KellyFraction(confidence, res.RiskReward, maxFraction)
	} else {
		res.PositionRisk = maxFraction
	}

	return res
}

func levels(direction models.Direction, entry, stopDistance, targetDistance float64) (float64, float64) {
	if direction == models.DirectionBuy {
		return entry - stopDistance, entry + targetDistance
	}
	return entry + stopDistance, entry - targetDistance
}

// RiskRewardRatio is the target distance over the stop distance, 0 without a stop distance
func RiskRewardRatio(entry, stopLoss, takeProfit float64) float64 {
	stopSize := math.Abs(entry - stopLoss)
	if stopSize == 0 {
		return 0
	}
	return math.Abs(takeProfit-entry) / stopSize
}

// RelativeVolatility is the mean ATR over the mean close across the last VolatilityLookback rows
func RelativeVolatility(set models.IndicatorSet) float64 {
	window := set.Tail(VolatilityLookback)
	meanClose := utils.Mean(window.Closes())
	if meanClose == 0 {
		return 0
	}
	return utils.Mean(window.ATRs()) / meanClose
}

// KellyFraction sizes the trade as p - (1-p)/b, clamped to [0, maxFraction]
func KellyFraction(winProbability, riskReward, maxFraction float64) float64 {
	if riskReward <= 0 || maxFraction <= 0 {
		return 0
	}
	f := winProbability - (1-winProbability)/riskReward
	return math.Max(0, math.Min(f, maxFraction))
}

// CalculatePositionSize converts an account risk fraction into units for a stop distance
func CalculatePositionSize(entry, stopLoss, accountSize, riskFraction float64) float64 {
	stopSize := math.Abs(entry - stopLoss)
	if stopSize == 0 {
		return 0
	}
	return accountSize * riskFraction / stopSize
}
