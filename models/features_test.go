package models

import "testing"

func TestRiskPolicy(t *testing.T) {
	settings := RiskSettings{MaxRiskPerTrade: 2, MaxOpenTrades: 5, MaxDailyDrawdown: 5}

	tests := []struct {
		name     string
		features FeatureToggleSet
		want     RiskPolicy
	}{
		{
			name: "advanced risk disabled ignores its parameters",
			features: FeatureToggleSet{AdvancedRiskManagement: RiskManagementFeature{
				Parameters: RiskManagementParams{UseKellyCriterion: true, DynamicStopLoss: true, RiskRewardMinimum: 1.5},
			}},
			want: RiskPolicy{MaxRiskPerTrade: 2, MaxOpenTrades: 5, StopATRMultiple: 2, TargetATRMultiple: 3},
		},
		{
			name: "advanced risk enabled",
			features: FeatureToggleSet{AdvancedRiskManagement: RiskManagementFeature{
				Enabled:    true,
				Parameters: RiskManagementParams{UseKellyCriterion: true, DynamicStopLoss: false, RiskRewardMinimum: 2},
			}},
			want: RiskPolicy{
				UseKelly:          true,
				MinRiskReward:     2,
				MaxRiskPerTrade:   2,
				MaxOpenTrades:     5,
				StopATRMultiple:   2,
				TargetATRMultiple: 3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.features.RiskPolicy(settings); got != tt.want {
				t.Errorf("RiskPolicy() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFlags(t *testing.T) {
	f := FeatureToggleSet{
		DeepLearning:       DeepLearningFeature{Enabled: true},
		AdaptiveParameters: AdaptiveFeature{Enabled: true},
	}
	want := FeatureFlags{DeepLearning: true, AdaptiveParameters: true}
	if got := f.Flags(); got != want {
		t.Errorf("Flags() = %+v, want %+v", got, want)
	}
}

func TestTwelveInterval(t *testing.T) {
	tests := map[string]string{
		"1m":  "1min",
		"5m":  "5min",
		"15m": "15min",
		"30m": "30min",
		"1h":  "1h",
		"4h":  "4h",
		"1d":  "1day",
	}
	for tf, want := range tests {
		got, err := TwelveInterval(tf)
		if err != nil || got != want {
			t.Errorf("TwelveInterval(%q) = %q, %v; want %q", tf, got, err, want)
		}
	}
	if _, err := TwelveInterval("2h"); err == nil {
		t.Error("expected an error for 2h")
	}
}

func TestIndicatorSetTail(t *testing.T) {
	set := IndicatorSet{{Close: 1}, {Close: 2}, {Close: 3}}
	if got := set.Tail(2).Closes(); len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("Tail(2) closes = %v", got)
	}
	if got := set.Tail(10); len(got) != 3 {
		t.Errorf("Tail(10) has %d rows", len(got))
	}
	if got := (IndicatorSet{}).Last(); got != (IndicatorRow{}) {
		t.Errorf("Last() of empty set = %+v", got)
	}
	if pct := (IndicatorRow{Close: 2, ATR: 0.01}).ATRPercent(); pct != 0.5 {
		t.Errorf("ATRPercent() = %v, want 0.5", pct)
	}
}
