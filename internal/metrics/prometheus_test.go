package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegistry(reg)

	r.RecordPrediction("EURUSD", "BUY", 0.8)
	r.RecordPrediction("EURUSD", "BUY", 0.75)
	r.RecordProviderFailure("lstm")
	r.ObserveStage("indicators", 10*time.Millisecond)

	if got := testutil.ToFloat64(r.predictions.WithLabelValues("EURUSD", "BUY")); got != 2 {
		t.Errorf("predictions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.lastConfidence.WithLabelValues("EURUSD")); got != 0.75 {
		t.Errorf("last confidence = %v, want 0.75", got)
	}
	if got := testutil.ToFloat64(r.providerFailures.WithLabelValues("lstm")); got != 1 {
		t.Errorf("provider failures = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.stageLatency); got != 1 {
		t.Errorf("stage latency series = %d, want 1", got)
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.RecordPrediction("EURUSD", "SELL", 0.9)
	r.RecordProviderFailure("sentiment")
	r.ObserveStage("fusion", time.Millisecond)
}
