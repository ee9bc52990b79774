// Package fixture builds deterministic price series for tests.
package fixture

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/Alias1177/fxsignal/models"
)

// DefaultSeed keeps sample series reproducible across runs
const DefaultSeed = 42

// Epoch is the time of the first generated bar
var Epoch = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// SampleBars generates n one-minute bars as a random walk of log returns
func SampleBars(symbol string, n int, seed int64) []models.PriceBar {
	rng := rand.New(rand.NewSource(seed))

	price := 1.5000
	if strings.HasPrefix(symbol, "EUR") {
		price = 1.2000
	}

	bars := make([]models.PriceBar, n)
	for i := 0; i < n; i++ {
		price *= math.Exp(rng.NormFloat64() * 0.001)

		closePrice := price
		high := closePrice * (1 + math.Abs(rng.NormFloat64()*0.0005))
		low := closePrice * (1 - math.Abs(rng.NormFloat64()*0.0005))
		open := closePrice * (1 + rng.NormFloat64()*0.0003)
		volume := int64(1000 + rng.NormFloat64()*200)

		bars[i] = models.PriceBar{
			Time:       Epoch.Add(time.Duration(i) * time.Minute),
			Open:       open,
			High:       math.Max(high, math.Max(open, closePrice)),
			Low:        math.Min(low, math.Min(open, closePrice)),
			Close:      closePrice,
			TickVolume: volume,
			Spread:     2,
			RealVolume: volume * 10,
		}
	}

	return bars
}

// Bars builds n bars from gen and stamps them one minute apart
func Bars(n int, gen func(i int) models.PriceBar) []models.PriceBar {
	bars := make([]models.PriceBar, n)
	for i := range bars {
		bars[i] = gen(i)
		bars[i].Time = Epoch.Add(time.Duration(i) * time.Minute)
	}
	return bars
}

// Trend builds a straight-line series moving step per bar with a fixed half range
func Trend(n int, start, step, halfRange float64) []models.PriceBar {
	return Bars(n, func(i int) models.PriceBar {
		c := start + float64(i)*step
		return models.PriceBar{Open: c - step/2, High: c + halfRange, Low: c - halfRange, Close: c}
	})
}
