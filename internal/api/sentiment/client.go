// Package sentiment fetches market sentiment scores
package sentiment

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	httpClient "github.com/Alias1177/fxsignal/internal/platform/http"
	"github.com/Alias1177/fxsignal/models"
)

type sentimentResponse struct {
	Symbol string  `json:"symbol"`
	Score  float64 `json:"score"`
}

// Client is an HTTP sentiment provider
type Client struct {
	baseURL       string
	includeSocial bool
	includeNews   bool
	httpClient    *httpClient.Client
	logger        zerolog.Logger
}

// NewClient creates a sentiment client using the configured sources
func NewClient(baseURL string, params models.SentimentParams, client *httpClient.Client) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		includeSocial: params.IncludeSocialMedia,
		includeNews:   params.IncludeNewsEvents,
		httpClient:    client,
		logger:        log.With().Str("component", "sentiment_client").Logger(),
	}
}

// CacheKey identifies a score by symbol and the sources it was built from
func (c *Client) CacheKey(symbol string) string {
	return fmt.Sprintf("sentiment:%s:social=%t:news=%t", symbol, c.includeSocial, c.includeNews)
}

// GetSentiment returns the sentiment score for symbol in [-1,1]
func (c *Client) GetSentiment(ctx context.Context, symbol string) (float64, error) {
	if !c.includeSocial && !c.includeNews {
		return 0, nil
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("social", strconv.FormatBool(c.includeSocial))
	q.Set("news", strconv.FormatBool(c.includeNews))

	var out sentimentResponse
	if err := c.httpClient.GetJSON(ctx, c.baseURL+"/v1/sentiment?"+q.Encode(), &out); err != nil {
		return 0, fmt.Errorf("sentiment for %s: %w", symbol, err)
	}
	if math.IsNaN(out.Score) || math.IsInf(out.Score, 0) {
		return 0, fmt.Errorf("sentiment for %s is not finite", symbol)
	}

	score := lo.Clamp(out.Score, -1, 1)
	c.logger.Debug().Str("symbol", symbol).Float64("score", score).Msg("Sentiment fetched")
	return score, nil
}
