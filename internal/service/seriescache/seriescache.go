package seriescache

import (
	"context"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/cache"
)

// DefaultTTL bounds how long a fetched series is served without hitting the
// source again.
const DefaultTTL = 15 * time.Minute

// Cache is a typed view over a cache.Store for annotated series, keyed by
// symbol and trailing-day window.
type Cache struct {
	store cache.Store
	ttl   time.Duration
}

func New(store cache.Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: store, ttl: ttl}
}

func key(symbol string, days int) string {
	return cache.Key("series", symbol, days)
}

// Get returns the cached series for (symbol, days), or cache.ErrMiss.
func (c *Cache) Get(ctx context.Context, symbol string, days int) ([]models.AnnotatedPricePoint, error) {
	var series []models.AnnotatedPricePoint
	if err := c.store.Get(ctx, key(symbol, days), &series); err != nil {
		return nil, err
	}
	return series, nil
}

// Set stores the series for (symbol, days) under the configured TTL.
func (c *Cache) Set(ctx context.Context, symbol string, days int, series []models.AnnotatedPricePoint) error {
	return c.store.Set(ctx, key(symbol, days), series, c.ttl)
}

// Flush drops every cached series so the next read refetches.
func (c *Cache) Flush(ctx context.Context) error {
	return c.store.Flush(ctx)
}
