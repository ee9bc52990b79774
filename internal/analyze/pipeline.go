// Package analyze runs the signal pipeline for one symbol
package analyze

import (
	"context"
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/fxsignal/internal/analysis/market"
	"github.com/Alias1177/fxsignal/internal/analysis/prediction"
	"github.com/Alias1177/fxsignal/internal/calculate"
	"github.com/Alias1177/fxsignal/internal/metrics"
	"github.com/Alias1177/fxsignal/internal/trace"
	"github.com/Alias1177/fxsignal/internal/trading/risk"
	"github.com/Alias1177/fxsignal/models"
)

// DefaultProviderTimeout bounds each predictor and sentiment call
const DefaultProviderTimeout = 5 * time.Second

// Request is the input of one prediction
type Request struct {
	Symbol    string
	Timeframe string
	Bars      []models.PriceBar
}

// Pipeline generates predictions from price bars.
// Its configuration is fixed at construction; concurrent calls share no state
// unless a controller is passed with WithController.
type Pipeline struct {
	features        models.FeatureToggleSet
	policy          models.RiskPolicy
	base            models.FusionParams
	predictors      []models.Predictor
	sentiment       models.SentimentProvider
	controller      *calculate.AdaptiveController
	providerTimeout time.Duration
	metrics         *metrics.Recorder
	now             func() time.Time
	logger          zerolog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithPredictors sets the deep learning predictors, combined in the given order
func WithPredictors(predictors ...models.Predictor) Option {
	return func(p *Pipeline) { p.predictors = predictors }
}

// WithSentiment sets the sentiment provider
func WithSentiment(provider models.SentimentProvider) Option {
	return func(p *Pipeline) { p.sentiment = provider }
}

// WithController shares an adaptive controller across calls
func WithController(c *calculate.AdaptiveController) Option {
	return func(p *Pipeline) { p.controller = c }
}

// WithProviderTimeout bounds each predictor and sentiment call
func WithProviderTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.providerTimeout = d }
}

// WithMetrics records stage latency, failures and predictions
func WithMetrics(r *metrics.Recorder) Option {
	return func(p *Pipeline) { p.metrics = r }
}

// WithClock sets the time source for GeneratedAt
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New resolves the feature toggles and risk settings into a pipeline.
// Parameter records left at their zero value and unset risk limits take their defaults.
func New(features models.FeatureToggleSet, riskSettings models.RiskSettings, opts ...Option) *Pipeline {
	features = withDefaultParameters(features)
	// every risk setting must be positive, so zero means unset
	if err := defaults.Set(&riskSettings); err != nil {
		panic(err)
	}

	base := models.DefaultFusionParams()
	base.ConfidenceThreshold = features.DeepLearning.Parameters.ConfidenceThreshold

	p := &Pipeline{
		features:        features,
		policy:          features.RiskPolicy(riskSettings),
		base:            base,
		providerTimeout: DefaultProviderTimeout,
		now:             time.Now,
		logger:          log.With().Str("component", "pipeline").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// withDefaultParameters fills parameter records that were never set.
// A partly set record is kept as given so explicit false and zero values survive.
func withDefaultParameters(f models.FeatureToggleSet) models.FeatureToggleSet {
	setIfZero := func(v any, zero bool) {
		if !zero {
			return
		}
		// defaults only fail on malformed tags
		if err := defaults.Set(v); err != nil {
			panic(err)
		}
	}
	setIfZero(&f.DeepLearning.Parameters, f.DeepLearning.Parameters == models.DeepLearningParams{})
	setIfZero(&f.SentimentAnalysis.Parameters, f.SentimentAnalysis.Parameters == models.SentimentParams{})
	setIfZero(&f.AdvancedRiskManagement.Parameters, f.AdvancedRiskManagement.Parameters == models.RiskManagementParams{})
	setIfZero(&f.AdaptiveParameters.Parameters, f.AdaptiveParameters.Parameters == models.AdaptiveParams{})
	return f
}

// Policy returns the resolved risk policy
func (p *Pipeline) Policy() models.RiskPolicy {
	return p.policy
}

// GeneratePrediction runs indicators, regime and adaptation, providers, fusion and risk on req.Bars
func (p *Pipeline) GeneratePrediction(ctx context.Context, req Request) (*models.Prediction, error) {
	ctx, span := trace.StartSpan(ctx, "generate_prediction")
	defer span.End()

	logger := p.logger.With().Str("symbol", req.Symbol).Str("timeframe", req.Timeframe).Logger()
	if traceID, _, ok := trace.GetTraceFields(ctx); ok {
		logger = logger.With().Str("trace_id", traceID).Logger()
	}

	start := time.Now()
	set, err := calculate.ComputeIndicators(req.Bars)
	if err != nil {
		logger.Error().Err(err).Int("bars", len(req.Bars)).Msg("Indicator computation failed")
		return nil, fmt.Errorf("computing indicators: %w", err)
	}
	p.metrics.ObserveStage("indicators", time.Since(start))

	params := p.base
	regime := models.RegimeUnknown
	if p.features.AdaptiveParameters.Enabled {
		regime = market.DetectRegime(set)
		controller := p.controller
		if controller == nil {
			controller = calculate.NewAdaptiveController(p.base, p.features.AdaptiveParameters.Parameters)
		}
		params = controller.Adapt(regime, set)
		logger.Debug().Str("regime", string(regime)).Interface("params", params).Msg("Parameters adapted")
	}

	start = time.Now()
	sentimentScore, hasSentiment := p.querySentiment(ctx, logger, req.Symbol)
	dl, hasDL := p.queryPredictors(ctx, logger, set)
	p.metrics.ObserveStage("providers", time.Since(start))

	tech := prediction.TechnicalSignals(set.Last())
	fused := prediction.Fuse(prediction.FusionInput{
		Technical:    tech.Signal,
		DL:           dl,
		HasDL:        hasDL,
		Sentiment:    sentimentScore,
		HasSentiment: hasSentiment,
	}, params)

	assessment := risk.Adjust(fused.Direction, fused.Confidence, set, p.policy)

	pred := &models.Prediction{
		Symbol:         req.Symbol,
		Timeframe:      req.Timeframe,
		Direction:      assessment.Direction,
		Confidence:     assessment.Confidence,
		EntryPrice:     assessment.EntryPrice,
		StopLoss:       assessment.StopLoss,
		TakeProfit:     assessment.TakeProfit,
		RiskReward:     assessment.RiskReward,
		MarketRegime:   regime,
		SentimentScore: sentimentScore,
		PositionRisk:   assessment.PositionRisk,
		Parameters: map[string]float64{
			models.ParamDLPrediction:      dl.Score,
			models.ParamDLConfidence:      dl.Confidence,
			models.ParamTechPrediction:    tech.Signal.Score,
			models.ParamTechConfidence:    tech.Signal.Confidence,
			models.ParamATR:               set.Last().ATR,
			models.ParamComposite:         fused.Composite,
			models.ParamDLWeight:          fused.DLWeight,
			models.ParamSentimentWeight:   fused.SentimentWeight,
			models.ParamTechWeight:        fused.TechWeight,
			models.ParamComputedRiskRatio: assessment.ComputedRiskReward,
		},
		Factors:     factors(tech, dl, hasDL, sentimentScore, hasSentiment, assessment, p.policy),
		Features:    p.features.Flags(),
		GeneratedAt: p.now().UTC(),
	}

	p.metrics.RecordPrediction(pred.Symbol, string(pred.Direction), pred.Confidence)
	logger.Info().
		Str("direction", string(pred.Direction)).
		Float64("confidence", pred.Confidence).
		Float64("composite", fused.Composite).
		Str("regime", string(regime)).
		Bool("vetoed", assessment.Vetoed).
		Msg("Prediction generated")

	return pred, nil
}

// GenerateFromProvider fetches count bars and generates a prediction from them
func (p *Pipeline) GenerateFromProvider(ctx context.Context, provider models.PriceSeriesProvider, symbol, timeframe string, count int) (*models.Prediction, error) {
	bars, err := provider.GetBars(ctx, symbol, timeframe, count)
	if err != nil {
		p.metrics.RecordProviderFailure("price_series")
		return nil, fmt.Errorf("fetching bars: %w: %w", models.ErrProviderUnavailable, err)
	}
	return p.GeneratePrediction(ctx, Request{Symbol: symbol, Timeframe: timeframe, Bars: bars})
}

func factors(tech prediction.TechnicalResult, dl models.Signal, hasDL bool, sentiment float64, hasSentiment bool, a risk.Assessment, policy models.RiskPolicy) []string {
	out := append([]string(nil), tech.Factors...)
	if hasDL {
		out = append(out, fmt.Sprintf("Model %s score %.2f (confidence %.2f)", dl.Source, dl.Score, dl.Confidence))
	}
	if hasSentiment {
		out = append(out, fmt.Sprintf("Sentiment %.2f", sentiment))
	}
	if a.Vetoed {
		out = append(out, fmt.Sprintf("Risk-reward %.2f below minimum %.2f", a.ComputedRiskReward, policy.MinRiskReward))
	}
	return out
}
