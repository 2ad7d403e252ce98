package usecase

import (
	"context"
	"testing"
	"time"

	"StockPulse/pkg/logger"
)

func TestLiveFeedBroadcast(t *testing.T) {
	e := newEnv(40)
	feed := NewLiveFeed(e.data, 5*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feed.Run(ctx)

	updates, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	select {
	case point := <-updates:
		if point.Close != 139 {
			t.Fatalf("broadcast close = %v, want 139", point.Close)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no broadcast within 2s")
	}
}

func TestLiveFeedUnsubscribeClosesChannel(t *testing.T) {
	e := newEnv(40)
	feed := NewLiveFeed(e.data, time.Hour, logger.Nop())

	updates, unsubscribe := feed.Subscribe()
	unsubscribe()
	// A second call is harmless.
	unsubscribe()

	if _, ok := <-updates; ok {
		t.Fatal("channel still open after unsubscribe")
	}
}
