// Package cache stores short-lived provider results.
package cache

import (
	"context"
	"time"
)

// Store is a byte cache with per-key expiry
type Store interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
