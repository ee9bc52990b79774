package analyze

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Alias1177/fxsignal/internal/analysis/prediction"
	"github.com/Alias1177/fxsignal/internal/trace"
	"github.com/Alias1177/fxsignal/models"
)

// querySentiment returns the sentiment score, or false when the feature is off or the provider failed
func (p *Pipeline) querySentiment(ctx context.Context, logger zerolog.Logger, symbol string) (float64, bool) {
	if !p.features.SentimentAnalysis.Enabled || p.sentiment == nil {
		return 0, false
	}

	ctx, span := trace.StartSpan(ctx, "sentiment")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, p.providerTimeout)
	defer cancel()

	score, err := p.sentiment.GetSentiment(ctx, symbol)
	if err != nil {
		err = fmt.Errorf("%w: sentiment: %w", models.ErrProviderUnavailable, err)
		logger.Warn().Err(err).Msg("Sentiment disabled for this call")
		p.metrics.RecordProviderFailure("sentiment")
		return 0, false
	}
	return score, true
}

// queryPredictors calls every predictor concurrently and combines the ones that answered.
// Results keep declaration order.
func (p *Pipeline) queryPredictors(ctx context.Context, logger zerolog.Logger, set models.IndicatorSet) (models.Signal, bool) {
	if !p.features.DeepLearning.Enabled || len(p.predictors) == 0 {
		return models.Signal{}, false
	}

	ctx, span := trace.StartSpan(ctx, "predictors")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, p.providerTimeout)
	defer cancel()

	outputs := make([]models.Signal, len(p.predictors))
	errs := make([]error, len(p.predictors))

	var g errgroup.Group
	for i, predictor := range p.predictors {
		i, predictor := i, predictor
		g.Go(func() error {
			outputs[i], errs[i] = predictor.Predict(ctx, set)
			return nil
		})
	}
	_ = g.Wait()

	var answered []models.Signal
	for i, err := range errs {
		name := p.predictors[i].Name()
		if err != nil {
			err = fmt.Errorf("%w: predictor %s: %w", models.ErrProviderUnavailable, name, err)
			logger.Warn().Err(err).Str("predictor", name).Msg("Predictor disabled for this call")
			p.metrics.RecordProviderFailure(name)
			continue
		}
		answered = append(answered, outputs[i])
	}

	if len(answered) == 0 {
		return models.Signal{}, false
	}
	return prediction.CombineEnsemble(answered), true
}
