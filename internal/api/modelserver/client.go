// Package modelserver calls remotely served sequence models
package modelserver

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	httpClient "github.com/Alias1177/fxsignal/internal/platform/http"
	"github.com/Alias1177/fxsignal/models"
)

// Model names understood by the model server
const (
	ModelLSTM        = "lstm"
	ModelTransformer = "transformer"
)

type predictRequest struct {
	Model    string              `json:"model"`
	Lookback int                 `json:"lookback"`
	Rows     models.IndicatorSet `json:"rows"`
}

type predictResponse struct {
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

// Predictor is a models.Predictor backed by one remote model
type Predictor struct {
	model      string
	baseURL    string
	lookback   int
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// NewPredictor creates a predictor for the named model
func NewPredictor(baseURL, model string, lookback int, client *httpClient.Client) *Predictor {
	return &Predictor{
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		lookback:   lookback,
		httpClient: client,
		logger:     log.With().Str("component", "modelserver").Str("model", model).Logger(),
	}
}

// Name returns the model name
func (p *Predictor) Name() string {
	return p.model
}

// Predict sends the last lookback rows to the model server
func (p *Predictor) Predict(ctx context.Context, set models.IndicatorSet) (models.Signal, error) {
	if len(set) == 0 {
		return models.Signal{}, models.ErrInsufficientHistory
	}

	rows := set.Tail(p.lookback)
	url := fmt.Sprintf("%s/v1/models/%s/predict", p.baseURL, p.model)

	var out predictResponse
	if err := p.httpClient.PostJSON(ctx, url, predictRequest{Model: p.model, Lookback: p.lookback, Rows: rows}, &out); err != nil {
		return models.Signal{}, fmt.Errorf("%s prediction: %w", p.model, err)
	}

	if math.IsNaN(out.Score) || math.IsInf(out.Score, 0) || math.IsNaN(out.Confidence) || math.IsInf(out.Confidence, 0) {
		return models.Signal{}, fmt.Errorf("%s returned a non-finite prediction", p.model)
	}

	sig := models.Signal{
		Source:     p.model,
		Score:      lo.Clamp(out.Score, -1, 1),
		Confidence: lo.Clamp(out.Confidence, 0, 1),
	}

	p.logger.Debug().Int("rows", len(rows)).Float64("score", sig.Score).Float64("confidence", sig.Confidence).Msg("Model prediction")
	return sig, nil
}

// ForModelType returns the predictors declared for a configured model type
func ForModelType(baseURL, modelType string, lookback int, client *httpClient.Client) ([]models.Predictor, error) {
	var names []string
	switch modelType {
	case "LSTM":
		names = []string{ModelLSTM}
	case "Transformer":
		names = []string{ModelTransformer}
	case "Ensemble":
		names = []string{ModelLSTM, ModelTransformer}
	default:
		return nil, fmt.Errorf("%w: unknown model type %q", models.ErrInvalidFeatureConfig, modelType)
	}

	return lo.Map(names, func(name string, _ int) models.Predictor {
		return NewPredictor(baseURL, name, lookback, client)
	}), nil
}
