package sentiment

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Alias1177/fxsignal/internal/cache"
	"github.com/Alias1177/fxsignal/models"
)

type keyer interface {
	CacheKey(symbol string) string
}

// Cached serves sentiment from a cache and refreshes it from next on a miss
type Cached struct {
	next  models.SentimentProvider
	store cache.Store
	ttl   time.Duration
}

func NewCached(next models.SentimentProvider, store cache.Store, ttl time.Duration) *Cached {
	return &Cached{next: next, store: store, ttl: ttl}
}

func (c *Cached) GetSentiment(ctx context.Context, symbol string) (float64, error) {
	key := "sentiment:" + symbol
	if k, ok := c.next.(keyer); ok {
		key = k.CacheKey(symbol)
	}

	data, ok, err := c.store.GetBytes(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Sentiment cache read failed")
	}
	if ok {
		if score, err := strconv.ParseFloat(string(data), 64); err == nil {
			return score, nil
		}
	}

	score, err := c.next.GetSentiment(ctx, symbol)
	if err != nil {
		return 0, err
	}

	if err := c.store.SetBytes(ctx, key, []byte(strconv.FormatFloat(score, 'f', -1, 64)), c.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Sentiment cache write failed")
	}
	return score, nil
}
