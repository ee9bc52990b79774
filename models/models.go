package models

import (
	"time"

	"github.com/samber/lo"
)

// Direction is the trading direction of a prediction
type Direction string

const (
	DirectionBuy     Direction = "BUY"
	DirectionSell    Direction = "SELL"
	DirectionNeutral Direction = "NEUTRAL"
)

// Regime is the qualitative market state
type Regime string

const (
	RegimeTrending Regime = "TRENDING"
	RegimeRanging  Regime = "RANGING"
	RegimeVolatile Regime = "VOLATILE"
	RegimeUnknown  Regime = "UNKNOWN"
)

// PriceBar represents a single OHLCV bar
type PriceBar struct {
	Time       time.Time `json:"time"`
	Open       float64   `json:"open"`
	High       float64   `json:"high"`
	Low        float64   `json:"low"`
	Close      float64   `json:"close"`
	TickVolume int64     `json:"tick_volume"`
	Spread     int64     `json:"spread"`
	RealVolume int64     `json:"real_volume"`
}

// TwelveResponse represents the API response from Twelve Data
type TwelveResponse struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Interval string `json:"interval"`
	} `json:"meta"`
	Values []struct {
		Datetime string  `json:"datetime"`
		Open     float64 `json:"open,string"`
		High     float64 `json:"high,string"`
		Low      float64 `json:"low,string"`
		Close    float64 `json:"close,string"`
		Volume   int64   `json:"volume,string,omitempty"`
	} `json:"values"`
	Status string `json:"status"`
}

// IndicatorRow holds the bar and all indicators computed at it
type IndicatorRow struct {
	Time           time.Time `json:"time"`
	Open           float64   `json:"open"`
	High           float64   `json:"high"`
	Low            float64   `json:"low"`
	Close          float64   `json:"close"`
	Returns        float64   `json:"returns"`
	LogReturns     float64   `json:"log_returns"`
	SMA20          float64   `json:"sma_20"`
	SMA50          float64   `json:"sma_50"`
	RSI            float64   `json:"rsi"`
	ATR            float64   `json:"atr"`
	BollingerUpper float64   `json:"bb_upper"`
	BollingerLower float64   `json:"bb_lower"`
	MACD           float64   `json:"macd"`
	MACDSignal     float64   `json:"macd_signal"`
	ADX            float64   `json:"adx"`
}

// ATRPercent is ATR relative to close, in percent
func (r IndicatorRow) ATRPercent() float64 {
	if r.Close == 0 {
		return 0
	}
	return r.ATR / r.Close * 100
}

// IndicatorSet is the usable tail of indicator rows, oldest first.
// Every value in every row is defined.
type IndicatorSet []IndicatorRow

// Last returns the most recent row
func (s IndicatorSet) Last() IndicatorRow {
	return lo.LastOrEmpty(s)
}

// Tail returns at most the last n rows
func (s IndicatorSet) Tail(n int) IndicatorSet {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// Closes returns the close series
func (s IndicatorSet) Closes() []float64 {
	return lo.Map(s, func(r IndicatorRow, _ int) float64 { return r.Close })
}

// ATRs returns the ATR series
func (s IndicatorSet) ATRs() []float64 {
	return lo.Map(s, func(r IndicatorRow, _ int) float64 { return r.ATR })
}

// Signal is a directional score with its confidence
type Signal struct {
	Source     string  `json:"source"`
	Score      float64 `json:"score"`      // -1..1
	Confidence float64 `json:"confidence"` // 0..1
}

// FusionParams holds the parameters used by signal fusion
type FusionParams struct {
	DLWeight            float64 `json:"dl_weight"`
	SentimentWeight     float64 `json:"sentiment_weight"`
	MinTechWeight       float64 `json:"min_tech_weight"`
	BuyThreshold        float64 `json:"buy_threshold"`
	SellThreshold       float64 `json:"sell_threshold"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
}

// DefaultFusionParams returns the baseline fusion parameters
func DefaultFusionParams() FusionParams {
	return FusionParams{
		DLWeight:            0.6,
		SentimentWeight:     0.2,
		MinTechWeight:       0.2,
		BuyThreshold:        0.2,
		SellThreshold:       -0.2,
		ConfidenceThreshold: 0.7,
	}
}

// FeatureFlags records which features took part in a prediction
type FeatureFlags struct {
	DeepLearning       bool `json:"deep_learning"`
	Sentiment          bool `json:"sentiment"`
	AdvancedRisk       bool `json:"advanced_risk"`
	AdaptiveParameters bool `json:"adaptive_parameters"`
}

// Diagnostic parameter keys
const (
	ParamDLPrediction      = "dl_prediction"
	ParamDLConfidence      = "dl_confidence"
	ParamTechPrediction    = "technical_prediction"
	ParamTechConfidence    = "technical_confidence"
	ParamATR               = "atr"
	ParamComposite         = "composite_score"
	ParamDLWeight          = "dl_weight"
	ParamSentimentWeight   = "sentiment_weight"
	ParamTechWeight        = "tech_weight"
	ParamComputedRiskRatio = "computed_risk_reward"
)

// Prediction is the final signal for a symbol
type Prediction struct {
	Symbol         string             `json:"symbol"`
	Timeframe      string             `json:"timeframe"`
	Direction      Direction          `json:"direction"`
	Confidence     float64            `json:"confidence"`
	EntryPrice     float64            `json:"entry_price"`
	StopLoss       float64            `json:"stop_loss"`
	TakeProfit     float64            `json:"take_profit"`
	RiskReward     float64            `json:"risk_reward"`
	MarketRegime   Regime             `json:"market_regime"`
	SentimentScore float64            `json:"sentiment_score"`
	PositionRisk   float64            `json:"position_risk"` // fraction of account
	Parameters     map[string]float64 `json:"parameters"`
	Factors        []string           `json:"factors,omitempty"`
	Features       FeatureFlags       `json:"features"`
	GeneratedAt    time.Time          `json:"generated_at"`
}

// PredictionResponse is the success/failure result returned to callers
type PredictionResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Prediction *Prediction `json:"prediction,omitempty"`
}
