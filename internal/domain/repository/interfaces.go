package repository

import (
	"context"

	"StockPulse/internal/domain/models"
)

// OutputSize selects the upstream fetch granularity.
type OutputSize string

const (
	OutputCompact OutputSize = "compact" // ~100 most recent days
	OutputFull    OutputSize = "full"    // full available history
)

// SizeForDays picks the fetch granularity for a trailing window.
func SizeForDays(days int) OutputSize {
	if days > 100 {
		return OutputFull
	}
	return OutputCompact
}

// SeriesSource produces a daily price series for a symbol, ascending by
// date. Implemented by the live gateway and the synthetic generator.
type SeriesSource interface {
	FetchDaily(ctx context.Context, symbol string, size OutputSize) ([]models.PricePoint, error)
}

// Metrics records pipeline observability signals.
type Metrics interface {
	RecordUpstreamRequest(outcome string)
	RecordCacheLookup(result string)
	RecordLastClose(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}

// Publisher emits pipeline lifecycle events (series refreshed, cache
// synced). Implementations may be no-ops when eventing is disabled.
type Publisher interface {
	PublishRefresh(ctx context.Context, symbol string, points int) error
	PublishSync(ctx context.Context, symbol string) error
	Close() error
}
