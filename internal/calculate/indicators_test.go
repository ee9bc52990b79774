package calculate

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Alias1177/fxsignal/internal/fixture"
	"github.com/Alias1177/fxsignal/models"
)

func TestComputeIndicatorsHistory(t *testing.T) {
	tests := []struct {
		name    string
		bars    []models.PriceBar
		wantErr error
		wantLen int
	}{
		{
			name:    "empty",
			bars:    nil,
			wantErr: models.ErrInsufficientHistory,
		},
		{
			name:    "one bar short of warm-up",
			bars:    fixture.SampleBars("EURUSD", 49, fixture.DefaultSeed),
			wantErr: models.ErrInsufficientHistory,
		},
		{
			name:    "exact warm-up",
			bars:    fixture.SampleBars("EURUSD", 50, fixture.DefaultSeed),
			wantLen: 1,
		},
		{
			name:    "hundred bars",
			bars:    fixture.SampleBars("GBPUSD", 100, fixture.DefaultSeed),
			wantLen: 51,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ComputeIndicators(tt.bars)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ComputeIndicators() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeIndicators() unexpected error: %v", err)
			}
			if len(set) != tt.wantLen {
				t.Errorf("len(set) = %d, want %d", len(set), tt.wantLen)
			}
		})
	}
}

func TestComputeIndicatorsIsDefinedSuffix(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 1234} {
		bars := fixture.SampleBars("EURUSD", 120, seed)

		set, err := ComputeIndicators(bars)
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}

		offset := len(bars) - len(set)
		for i, row := range set {
			if !rowDefined(row) {
				t.Fatalf("seed %d: row %d has undefined values: %+v", seed, i, row)
			}
			bar := bars[offset+i]
			if !row.Time.Equal(bar.Time) || row.Close != bar.Close || row.High != bar.High {
				t.Fatalf("seed %d: row %d does not match bar %d", seed, i, offset+i)
			}
			if row.RSI < 0 || row.RSI > 100 {
				t.Errorf("seed %d: RSI out of range at row %d: %f", seed, i, row.RSI)
			}
		}
	}
}

func TestComputeIndicatorsRejectsBadSeries(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(bars []models.PriceBar)
	}{
		{
			name: "duplicate timestamp",
			mutate: func(bars []models.PriceBar) {
				bars[10].Time = bars[9].Time
			},
		},
		{
			name: "time going backwards",
			mutate: func(bars []models.PriceBar) {
				bars[30].Time = bars[0].Time.Add(-time.Hour)
			},
		},
		{
			name: "NaN close",
			mutate: func(bars []models.PriceBar) {
				bars[20].Close = math.NaN()
			},
		},
		{
			name: "zero close",
			mutate: func(bars []models.PriceBar) {
				bars[5].Close = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bars := fixture.SampleBars("EURUSD", 60, fixture.DefaultSeed)
			tt.mutate(bars)

			if _, err := ComputeIndicators(bars); !errors.Is(err, models.ErrInvalidPriceSeries) {
				t.Errorf("ComputeIndicators() error = %v, want %v", err, models.ErrInvalidPriceSeries)
			}
		})
	}
}

func TestComputeIndicatorsLinearTrend(t *testing.T) {
	const (
		start     = 1.1
		step      = 0.001
		halfRange = 0.002
	)
	bars := fixture.Trend(100, start, step, halfRange)

	set, err := ComputeIndicators(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last := set.Last()
	idx := float64(len(bars) - 1)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"sma_20", last.SMA20, start + (idx-9.5)*step},
		{"sma_50", last.SMA50, start + (idx-24.5)*step},
		{"atr", last.ATR, 2 * halfRange},
		{"adx", last.ADX, 100},
		{"rsi", last.RSI, 100},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %.10f, want %.10f", c.name, c.got, c.want)
		}
	}

	if last.MACD <= last.MACDSignal || last.MACD <= 0 {
		t.Errorf("expected rising MACD above its signal, got macd=%f signal=%f", last.MACD, last.MACDSignal)
	}
	if last.Close >= last.BollingerUpper || last.Close <= last.BollingerLower {
		t.Errorf("close %f outside bands [%f, %f]", last.Close, last.BollingerLower, last.BollingerUpper)
	}
}

func TestCalculateRSI(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{
			name:   "only gains",
			closes: linear(20, 1.0, 0.01),
			want:   100,
		},
		{
			name:   "only losses",
			closes: linear(20, 2.0, -0.01),
			want:   0,
		},
		{
			name:   "flat",
			closes: linear(20, 1.0, 0),
			want:   100,
		},
		{
			name:   "alternating equal moves",
			closes: alternating(21, 1.0, 0.01),
			want:   50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rsi := calculateRSI(tt.closes, RSIPeriod)
			got := rsi[len(rsi)-1]
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("calculateRSI() last = %f, want %f", got, tt.want)
			}
			for i := 0; i < RSIPeriod; i++ {
				if !math.IsNaN(rsi[i]) {
					t.Errorf("rsi[%d] = %f, want undefined during warm-up", i, rsi[i])
				}
			}
		})
	}
}

func TestCalculateBollingerBandsSampleStd(t *testing.T) {
	// 1..20: sample std = sqrt(35)
	closes := linear(20, 1, 1)
	upper, lower := calculateBollingerBands(closes, BBPeriod, BBStdDev)

	mid := 10.5
	width := 2 * math.Sqrt(35)
	if math.Abs(upper[19]-(mid+width)) > 1e-9 || math.Abs(lower[19]-(mid-width)) > 1e-9 {
		t.Errorf("bands = [%f, %f], want [%f, %f]", lower[19], upper[19], mid-width, mid+width)
	}
	if !math.IsNaN(upper[18]) {
		t.Errorf("upper[18] = %f, want undefined", upper[18])
	}
}

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func alternating(n int, base, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base
		if i%2 == 1 {
			out[i] += amp
		}
	}
	return out
}
