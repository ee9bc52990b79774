package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder records pipeline metrics in Prometheus
type Recorder struct {
	predictions      *prometheus.CounterVec
	providerFailures *prometheus.CounterVec
	lastConfidence   *prometheus.GaugeVec
	stageLatency     *prometheus.HistogramVec
}

// New registers the metrics on the default registry
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics on reg
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		predictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxsignal_predictions_total",
				Help: "Predictions generated by direction",
			},
			[]string{"symbol", "direction"},
		),
		providerFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxsignal_provider_failures_total",
				Help: "Predictor and sentiment provider failures",
			},
			[]string{"provider"},
		),
		lastConfidence: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fxsignal_last_confidence",
				Help: "Confidence of the last prediction for a symbol",
			},
			[]string{"symbol"},
		),
		stageLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fxsignal_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
}

// RecordPrediction records a finished prediction
func (r *Recorder) RecordPrediction(symbol, direction string, confidence float64) {
	if r == nil {
		return
	}
	r.predictions.WithLabelValues(symbol, direction).Inc()
	r.lastConfidence.WithLabelValues(symbol).Set(confidence)
}

// RecordProviderFailure records a failed provider call
func (r *Recorder) RecordProviderFailure(provider string) {
	if r == nil {
		return
	}
	r.providerFailures.WithLabelValues(provider).Inc()
}

// ObserveStage records the duration of a pipeline stage
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.stageLatency.WithLabelValues(stage).Observe(d.Seconds())
}
