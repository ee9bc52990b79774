package market

import (
	"testing"

	"github.com/Alias1177/fxsignal/internal/calculate"
	"github.com/Alias1177/fxsignal/internal/fixture"
	"github.com/Alias1177/fxsignal/models"
)

func rows(n int, gen func(i int) models.IndicatorRow) models.IndicatorSet {
	set := make(models.IndicatorSet, n)
	for i := range set {
		set[i] = gen(i)
	}
	return set
}

func TestDetectRegime(t *testing.T) {
	calm := func(i int) models.IndicatorRow {
		return models.IndicatorRow{Close: 1.1, ATR: 0.0011, ADX: 18}
	}

	tests := []struct {
		name     string
		set      models.IndicatorSet
		expected models.Regime
	}{
		{
			name:     "empty",
			set:      nil,
			expected: models.RegimeUnknown,
		},
		{
			name:     "calm market",
			set:      rows(30, calm),
			expected: models.RegimeRanging,
		},
		{
			name: "strong trend",
			set: rows(30, func(i int) models.IndicatorRow {
				r := calm(i)
				r.ADX = 32
				return r
			}),
			expected: models.RegimeTrending,
		},
		{
			name: "ADX exactly at threshold is not trending",
			set: rows(30, func(i int) models.IndicatorRow {
				r := calm(i)
				r.ADX = 25
				return r
			}),
			expected: models.RegimeRanging,
		},
		{
			name: "volatility spike on last bar",
			set: rows(30, func(i int) models.IndicatorRow {
				r := calm(i)
				if i == 29 {
					r.ATR = 0.0055
				}
				return r
			}),
			expected: models.RegimeVolatile,
		},
		{
			name: "trend wins over volatility",
			set: rows(30, func(i int) models.IndicatorRow {
				r := calm(i)
				r.ADX = 40
				if i == 29 {
					r.ATR = 0.0055
				}
				return r
			}),
			expected: models.RegimeTrending,
		},
		{
			name: "spike without a full baseline window",
			set: rows(10, func(i int) models.IndicatorRow {
				r := calm(i)
				if i == 9 {
					r.ATR = 0.0055
				}
				return r
			}),
			expected: models.RegimeRanging,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectRegime(tt.set)
			if result != tt.expected {
				t.Errorf("DetectRegime() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestDetectRegimeIsTotal(t *testing.T) {
	valid := map[models.Regime]bool{
		models.RegimeTrending: true,
		models.RegimeRanging:  true,
		models.RegimeVolatile: true,
	}

	for seed := int64(1); seed <= 25; seed++ {
		set, err := calculate.ComputeIndicators(fixture.SampleBars("EURUSD", 100, seed))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		for n := 20; n <= len(set); n++ {
			if got := DetectRegime(set[:n]); !valid[got] {
				t.Fatalf("seed %d, %d rows: DetectRegime() = %v", seed, n, got)
			}
		}
	}
}

func TestVolatilityRatio(t *testing.T) {
	set := rows(20, func(i int) models.IndicatorRow {
		return models.IndicatorRow{Close: 1, ATR: 0.01}
	})
	if got := VolatilityRatio(set); got < 0.999999 || got > 1.000001 {
		t.Errorf("VolatilityRatio() = %f, want 1", got)
	}

	set[19].ATR = 0.02
	// baseline = (19*1 + 2)/20 = 1.05 percent
	want := 2 / 1.05
	if got := VolatilityRatio(set); got < want-1e-9 || got > want+1e-9 {
		t.Errorf("VolatilityRatio() = %f, want %f", got, want)
	}
}
