package prediction

import (
	"math"

	"github.com/Alias1177/fxsignal/models"
)

// FusionInput carries the sub-scores available for one call.
// A source that is disabled or failed has its Has flag unset.
type FusionInput struct {
	Technical    models.Signal
	DL           models.Signal
	HasDL        bool
	Sentiment    float64
	HasSentiment bool
}

// FusionResult is the fused decision before risk adjustment
type FusionResult struct {
	Direction       models.Direction
	Confidence      float64
	Composite       float64
	DLWeight        float64
	SentimentWeight float64
	TechWeight      float64
}

// Weights resolves the weight of each source. The technical weight never drops below
// params.MinTechWeight; the other weights shrink proportionally when it would.
func Weights(in FusionInput, params models.FusionParams) (dl, sentiment, tech float64) {
	if in.HasDL {
		dl = params.DLWeight
	}
	if in.HasSentiment {
		sentiment = params.SentimentWeight
	}

	tech = 1 - dl - sentiment
	if tech < params.MinTechWeight-1e-12 {
		scale := (1 - params.MinTechWeight) / (dl + sentiment)
		dl *= scale
		sentiment *= scale
		tech = params.MinTechWeight
	}
	return dl, sentiment, tech
}

// Fuse combines the available sub-scores into a direction and confidence.
// Below the confidence threshold the direction is forced to NEUTRAL; the confidence is kept as computed.
func Fuse(in FusionInput, params models.FusionParams) FusionResult {
	dlW, sentW, techW := Weights(in, params)

	composite := techW * in.Technical.Score
	if dlW > 0 {
		composite += dlW * in.DL.Score
	}
	if sentW > 0 {
		composite += sentW * in.Sentiment
	}

	direction := models.DirectionNeutral
	switch {
	case composite > params.BuyThreshold:
		direction = models.DirectionBuy
	case composite < params.SellThreshold:
		direction = models.DirectionSell
	}

	confidence := math.Abs(composite)
	if confidence < params.ConfidenceThreshold {
		direction = models.DirectionNeutral
	}

	return FusionResult{
		Direction:       direction,
		Confidence:      confidence,
		Composite:       composite,
		DLWeight:        dlW,
		SentimentWeight: sentW,
		TechWeight:      techW,
	}
}
