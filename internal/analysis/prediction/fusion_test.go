package prediction

import (
	"math"
	"testing"

	"github.com/Alias1177/fxsignal/models"
)

func TestWeights(t *testing.T) {
	params := models.DefaultFusionParams()

	tests := []struct {
		name                       string
		in                         FusionInput
		wantDL, wantSent, wantTech float64
	}{
		{"technical only", FusionInput{}, 0, 0, 1},
		{"with predictor", FusionInput{HasDL: true}, 0.6, 0, 0.4},
		{"with sentiment", FusionInput{HasSentiment: true}, 0, 0.2, 0.8},
		{"all sources", FusionInput{HasDL: true, HasSentiment: true}, 0.6, 0.2, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dl, sent, tech := Weights(tt.in, params)
			if math.Abs(dl-tt.wantDL) > 1e-12 || math.Abs(sent-tt.wantSent) > 1e-12 || math.Abs(tech-tt.wantTech) > 1e-12 {
				t.Errorf("Weights() = (%f, %f, %f), want (%f, %f, %f)", dl, sent, tech, tt.wantDL, tt.wantSent, tt.wantTech)
			}
		})
	}
}

func TestWeightsKeepTechnicalFloor(t *testing.T) {
	params := models.DefaultFusionParams()
	params.DLWeight = 0.7
	params.SentimentWeight = 0.3

	dl, sent, tech := Weights(FusionInput{HasDL: true, HasSentiment: true}, params)
	if tech < params.MinTechWeight-1e-12 {
		t.Errorf("tech weight %f below floor %f", tech, params.MinTechWeight)
	}
	if math.Abs(dl+sent+tech-1) > 1e-12 {
		t.Errorf("weights sum to %f, want 1", dl+sent+tech)
	}
	if math.Abs(dl/sent-0.7/0.3) > 1e-9 {
		t.Errorf("ratio dl/sent = %f, want %f", dl/sent, 0.7/0.3)
	}
}

func TestFuse(t *testing.T) {
	params := models.DefaultFusionParams()

	tests := []struct {
		name          string
		in            FusionInput
		wantDirection models.Direction
		wantComposite float64
	}{
		{
			name:          "technical only strong buy",
			in:            FusionInput{Technical: models.Signal{Score: 1, Confidence: 1}},
			wantDirection: models.DirectionBuy,
			wantComposite: 1,
		},
		{
			name:          "technical only strong sell",
			in:            FusionInput{Technical: models.Signal{Score: -0.75, Confidence: 0.75}},
			wantDirection: models.DirectionSell,
			wantComposite: -0.75,
		},
		{
			name:          "above buy threshold but below confidence threshold",
			in:            FusionInput{Technical: models.Signal{Score: 0.5, Confidence: 0.5}},
			wantDirection: models.DirectionNeutral,
			wantComposite: 0.5,
		},
		{
			name: "predictor and sentiment agree",
			in: FusionInput{
				Technical:    models.Signal{Score: 1, Confidence: 1},
				DL:           models.Signal{Score: 0.9, Confidence: 0.8},
				HasDL:        true,
				Sentiment:    0.5,
				HasSentiment: true,
			},
			wantDirection: models.DirectionBuy,
			wantComposite: 0.6*0.9 + 0.2*0.5 + 0.2*1,
		},
		{
			name: "disabled predictor score is ignored",
			in: FusionInput{
				Technical: models.Signal{Score: -1, Confidence: 1},
				DL:        models.Signal{Score: 1, Confidence: 1},
			},
			wantDirection: models.DirectionSell,
			wantComposite: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Fuse(tt.in, params)
			if res.Direction != tt.wantDirection {
				t.Errorf("direction = %s, want %s", res.Direction, tt.wantDirection)
			}
			if math.Abs(res.Composite-tt.wantComposite) > 1e-12 {
				t.Errorf("composite = %f, want %f", res.Composite, tt.wantComposite)
			}
			if res.Confidence != math.Abs(res.Composite) {
				t.Errorf("confidence = %f, want |composite| = %f", res.Confidence, math.Abs(res.Composite))
			}
		})
	}
}

func TestFuseTechnicalOnlyEqualsTechnicalScore(t *testing.T) {
	params := models.DefaultFusionParams()
	for _, score := range []float64{-1, -2.0 / 3.0, -0.5, -1.0 / 3.0, 0, 0.25, 1.0 / 3.0, 0.5, 1} {
		res := Fuse(FusionInput{Technical: models.Signal{Score: score, Confidence: math.Abs(score)}}, params)
		if res.TechWeight != 1 {
			t.Fatalf("tech weight = %f, want 1", res.TechWeight)
		}
		if res.Composite != score {
			t.Errorf("composite = %v, want exactly %v", res.Composite, score)
		}
	}
}
