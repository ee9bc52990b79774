package models

import "context"

// PriceSeriesProvider returns ordered bars, oldest first
type PriceSeriesProvider interface {
	GetBars(ctx context.Context, symbol, timeframe string, count int) ([]PriceBar, error)
}

// Predictor produces a directional score from indicators
type Predictor interface {
	Name() string
	Predict(ctx context.Context, set IndicatorSet) (Signal, error)
}

// SentimentProvider returns a score in [-1,1], 0 meaning neutral or absent
type SentimentProvider interface {
	GetSentiment(ctx context.Context, symbol string) (float64, error)
}

// Notifier publishes a finished prediction
type Notifier interface {
	Notify(ctx context.Context, p *Prediction) error
}
