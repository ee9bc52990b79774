package calculate

import (
	"math"
	"sync"

	"github.com/samber/lo"

	"github.com/Alias1177/fxsignal/internal/utils"
	"github.com/Alias1177/fxsignal/models"
)

// AdaptiveController moves fusion parameters toward regime specific targets.
// It is safe for concurrent use; callers that want independent sessions hold one instance each.
type AdaptiveController struct {
	mu         sync.Mutex
	base       models.FusionParams
	current    models.FusionParams
	settings   models.AdaptiveParams
	lastRegime models.Regime
}

// NewAdaptiveController starts from base parameters
func NewAdaptiveController(base models.FusionParams, settings models.AdaptiveParams) *AdaptiveController {
	if settings.AdaptationSpeed <= 0 || settings.AdaptationSpeed > 1 {
		settings.AdaptationSpeed = 0.5
	}
	return &AdaptiveController{
		base:       base,
		current:    base,
		settings:   settings,
		lastRegime: models.RegimeUnknown,
	}
}

// Adapt moves the current parameters one step toward the target for regime and returns them
func (c *AdaptiveController) Adapt(regime models.Regime, set models.IndicatorSet) models.FusionParams {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.base
	if c.settings.MarketRegimeDetection {
		target = getOptimizedParameters(regime, c.base)
	}

	if c.settings.VolatilityAdjustment {
		volatilityRatio := shortTermVolatilityRatio(set)
		if volatilityRatio > 2.0 {
			// Extreme volatility: demand more agreement before trading
			target.ConfidenceThreshold += 0.05
			target.BuyThreshold += 0.05
			target.SellThreshold -= 0.05
		} else if volatilityRatio < 0.5 {
			target.ConfidenceThreshold -= 0.05
		}
	}

	speed := c.settings.AdaptationSpeed
	step := func(cur, tgt float64) float64 { return cur + speed*(tgt-cur) }

	next := models.FusionParams{
		DLWeight:            step(c.current.DLWeight, target.DLWeight),
		SentimentWeight:     step(c.current.SentimentWeight, target.SentimentWeight),
		MinTechWeight:       c.base.MinTechWeight,
		BuyThreshold:        step(c.current.BuyThreshold, target.BuyThreshold),
		SellThreshold:       step(c.current.SellThreshold, target.SellThreshold),
		ConfidenceThreshold: step(c.current.ConfidenceThreshold, target.ConfidenceThreshold),
	}

	c.current = sanitize(next)
	c.lastRegime = regime
	return c.current
}

// Current returns the parameters produced by the last adaptation
func (c *AdaptiveController) Current() models.FusionParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// LastRegime returns the regime seen by the last adaptation
func (c *AdaptiveController) LastRegime() models.Regime {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRegime
}

// Reset returns the controller to its base parameters
func (c *AdaptiveController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.base
	c.lastRegime = models.RegimeUnknown
}

func sanitize(p models.FusionParams) models.FusionParams {
	p.MinTechWeight = math.Max(0.2, math.Min(1, p.MinTechWeight))
	p.DLWeight = lo.Clamp(p.DLWeight, 0, 1)
	p.SentimentWeight = lo.Clamp(p.SentimentWeight, 0, 1)
	if sum := p.DLWeight + p.SentimentWeight; sum > 1-p.MinTechWeight {
		scale := (1 - p.MinTechWeight) / sum
		p.DLWeight *= scale
		p.SentimentWeight *= scale
	}
	p.BuyThreshold = lo.Clamp(p.BuyThreshold, 0, 1)
	p.SellThreshold = lo.Clamp(p.SellThreshold, -1, 0)
	p.ConfidenceThreshold = lo.Clamp(p.ConfidenceThreshold, 0, 1)
	return p
}

// shortTermVolatilityRatio compares the last 5 ATR% values to the last 20
func shortTermVolatilityRatio(set models.IndicatorSet) float64 {
	atrPct := func(rows models.IndicatorSet) []float64 {
		return lo.Map(rows, func(r models.IndicatorRow, _ int) float64 { return r.ATRPercent() })
	}
	long := utils.Mean(atrPct(set.Tail(20)))
	if long <= 0 {
		return 1
	}
	return utils.Mean(atrPct(set.Tail(5))) / long
}

// getOptimizedParameters returns the fusion targets for a regime, expressed relative to base
func getOptimizedParameters(regime models.Regime, base models.FusionParams) models.FusionParams {
	params := base

	switch regime {
	case models.RegimeTrending:
		// Trends reward the model and allow earlier entries
		params.DLWeight = base.DLWeight + 0.05
		params.SentimentWeight = base.SentimentWeight - 0.05
		params.BuyThreshold = base.BuyThreshold - 0.05
		params.SellThreshold = base.SellThreshold + 0.05
		params.ConfidenceThreshold = base.ConfidenceThreshold - 0.05
	case models.RegimeRanging:
		params.DLWeight = base.DLWeight - 0.1
		params.BuyThreshold = base.BuyThreshold + 0.05
		params.SellThreshold = base.SellThreshold - 0.05
	case models.RegimeVolatile:
		params.DLWeight = base.DLWeight - 0.15
		params.SentimentWeight = base.SentimentWeight + 0.05
		params.BuyThreshold = base.BuyThreshold + 0.1
		params.SellThreshold = base.SellThreshold - 0.1
		params.ConfidenceThreshold = base.ConfidenceThreshold + 0.1
	}

	return params
}
