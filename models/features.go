package models

// DeepLearningParams configures the remote model predictors
type DeepLearningParams struct {
	ModelType           string  `json:"modelType" yaml:"modelType" default:"LSTM" validate:"oneof=LSTM Transformer Ensemble"`
	LookbackPeriod      int     `json:"lookbackPeriod" yaml:"lookbackPeriod" default:"60" validate:"min=10,max=200"`
	ConfidenceThreshold float64 `json:"confidenceThreshold" yaml:"confidenceThreshold" default:"0.7" validate:"min=0,max=1"`
}

type DeepLearningFeature struct {
	Enabled    bool               `json:"enabled" yaml:"enabled"`
	Parameters DeepLearningParams `json:"parameters" yaml:"parameters"`
}

// SentimentParams configures the sentiment provider request
type SentimentParams struct {
	IncludeSocialMedia bool    `json:"includeSocialMedia" yaml:"includeSocialMedia" default:"true"`
	IncludeNewsEvents  bool    `json:"includeNewsEvents" yaml:"includeNewsEvents" default:"true"`
	SentimentWeight    float64 `json:"sentimentWeight" yaml:"sentimentWeight" default:"0.3" validate:"min=0.1,max=0.5"`
}

type SentimentFeature struct {
	Enabled    bool            `json:"enabled" yaml:"enabled"`
	Parameters SentimentParams `json:"parameters" yaml:"parameters"`
}

type RiskManagementParams struct {
	UseKellyCriterion bool    `json:"useKellyCriterion" yaml:"useKellyCriterion" default:"true"`
	DynamicStopLoss   bool    `json:"dynamicStopLoss" yaml:"dynamicStopLoss" default:"true"`
	RiskRewardMinimum float64 `json:"riskRewardMinimum" yaml:"riskRewardMinimum" default:"1.5" validate:"min=1,max=3"`
}

type RiskManagementFeature struct {
	Enabled    bool                 `json:"enabled" yaml:"enabled"`
	Parameters RiskManagementParams `json:"parameters" yaml:"parameters"`
}

type AdaptiveParams struct {
	MarketRegimeDetection bool    `json:"marketRegimeDetection" yaml:"marketRegimeDetection" default:"true"`
	VolatilityAdjustment  bool    `json:"volatilityAdjustment" yaml:"volatilityAdjustment" default:"true"`
	AdaptationSpeed       float64 `json:"adaptationSpeed" yaml:"adaptationSpeed" default:"0.5" validate:"min=0.1,max=1"`
}

type AdaptiveFeature struct {
	Enabled    bool           `json:"enabled" yaml:"enabled"`
	Parameters AdaptiveParams `json:"parameters" yaml:"parameters"`
}

// FeatureToggleSet is the fixed set of optional subsystems.
// Keys match the payload sent by the settings UI.
type FeatureToggleSet struct {
	DeepLearning           DeepLearningFeature   `json:"Deep Learning" yaml:"Deep Learning"`
	SentimentAnalysis      SentimentFeature      `json:"Sentiment Analysis" yaml:"Sentiment Analysis"`
	AdvancedRiskManagement RiskManagementFeature `json:"Advanced Risk Management" yaml:"Advanced Risk Management"`
	AdaptiveParameters     AdaptiveFeature       `json:"Adaptive Parameters" yaml:"Adaptive Parameters"`
}

// RiskSettings are account level limits
type RiskSettings struct {
	MaxRiskPerTrade  float64 `json:"maxRiskPerTrade" yaml:"maxRiskPerTrade" default:"2.0" validate:"gt=0,lte=100"` // percent
	MaxOpenTrades    int     `json:"maxOpenTrades" yaml:"maxOpenTrades" default:"5" validate:"min=1"`
	MaxDailyDrawdown float64 `json:"maxDailyDrawdown" yaml:"maxDailyDrawdown" default:"5.0" validate:"gt=0,lte=100"` // percent
}

// RiskPolicy is the resolved risk configuration used by the risk adjuster
type RiskPolicy struct {
	UseKelly          bool
	DynamicStopLoss   bool
	MinRiskReward     float64 // 0 disables the veto
	MaxRiskPerTrade   float64 // percent
	MaxOpenTrades     int
	StopATRMultiple   float64
	TargetATRMultiple float64
}

// Base ATR multiples for stop and target distances
const (
	DefaultStopATRMultiple   = 2.0
	DefaultTargetATRMultiple = 3.0
)

// RiskPolicy resolves the advanced risk toggle and account limits into a policy
func (f FeatureToggleSet) RiskPolicy(settings RiskSettings) RiskPolicy {
	policy := RiskPolicy{
		MaxRiskPerTrade:   settings.MaxRiskPerTrade,
		MaxOpenTrades:     settings.MaxOpenTrades,
		StopATRMultiple:   DefaultStopATRMultiple,
		TargetATRMultiple: DefaultTargetATRMultiple,
	}
	if f.AdvancedRiskManagement.Enabled {
		p := f.AdvancedRiskManagement.Parameters
		policy.UseKelly = p.UseKellyCriterion
		policy.DynamicStopLoss = p.DynamicStopLoss
		policy.MinRiskReward = p.RiskRewardMinimum
	}
	return policy
}

// Flags reports which features are enabled
func (f FeatureToggleSet) Flags() FeatureFlags {
	return FeatureFlags{
		DeepLearning:       f.DeepLearning.Enabled,
		Sentiment:          f.SentimentAnalysis.Enabled,
		AdvancedRisk:       f.AdvancedRiskManagement.Enabled,
		AdaptiveParameters: f.AdaptiveParameters.Enabled,
	}
}
