package usecase

import (
	"context"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/logger"
)

// LiveFeed periodically re-reads the latest annotated point and fans it out
// to subscribers. Slow subscribers miss ticks instead of blocking the loop.
type LiveFeed struct {
	data     *MarketData
	interval time.Duration
	log      *logger.Logger

	mu   sync.Mutex
	subs map[chan models.AnnotatedPricePoint]struct{}
}

func NewLiveFeed(data *MarketData, interval time.Duration, log *logger.Logger) *LiveFeed {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &LiveFeed{
		data:     data,
		interval: interval,
		log:      log,
		subs:     make(map[chan models.AnnotatedPricePoint]struct{}),
	}
}

// Subscribe registers a listener. The returned cancel func must be called
// when the listener goes away.
func (f *LiveFeed) Subscribe() (<-chan models.AnnotatedPricePoint, func()) {
	ch := make(chan models.AnnotatedPricePoint, 1)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subs[ch]; ok {
			delete(f.subs, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Run drives the feed until the context is cancelled.
func (f *LiveFeed) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.tick(ctx)
		}
	}
}

func (f *LiveFeed) tick(ctx context.Context) {
	f.mu.Lock()
	listeners := len(f.subs)
	f.mu.Unlock()
	if listeners == 0 {
		return
	}

	latest, err := f.data.FetchLatest(ctx, f.data.Symbol())
	if err != nil {
		f.log.Warn("live feed refresh failed", logger.Error(err))
		return
	}

	f.mu.Lock()
	for ch := range f.subs {
		select {
		case ch <- latest:
		default:
		}
	}
	f.mu.Unlock()
}
