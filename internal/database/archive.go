package database

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Alias1177/fxsignal/models"
)

type barStore interface {
	SaveBars(ctx context.Context, symbol, timeframe string, bars []models.PriceBar) error
}

// ArchivingProvider stores every series it fetches from a remote feed
type ArchivingProvider struct {
	next  models.PriceSeriesProvider
	store barStore
}

func NewArchivingProvider(next models.PriceSeriesProvider, db *DB) *ArchivingProvider {
	return &ArchivingProvider{next: next, store: db}
}

// GetBars returns the remote bars; a failed write is logged and does not fail the fetch
func (a *ArchivingProvider) GetBars(ctx context.Context, symbol, timeframe string, count int) ([]models.PriceBar, error) {
	bars, err := a.next.GetBars(ctx, symbol, timeframe, count)
	if err != nil {
		return nil, err
	}
	if err := a.store.SaveBars(ctx, symbol, timeframe, bars); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Str("timeframe", timeframe).Msg("Failed to archive bars")
	}
	return bars, nil
}
