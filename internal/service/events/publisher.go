// Package events emits pipeline lifecycle events to Kafka. Publishing is
// best-effort; the pipeline never blocks on the broker.
package events

import (
	"context"
	"time"

	"StockPulse/internal/domain/repository"
	"StockPulse/pkg/kafka"
)

const (
	EventSeriesRefreshed = "series_refreshed"
	EventCacheSynced     = "cache_synced"
)

type envelope struct {
	Event      string `json:"event"`
	Symbol     string `json:"symbol"`
	Points     int    `json:"points,omitempty"`
	OccurredAt string `json:"occurredAt"`
}

// KafkaPublisher writes lifecycle events to a single topic, keyed by
// symbol so per-symbol ordering is preserved.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	now      func() time.Time
}

func NewKafkaPublisher(producer *kafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, now: time.Now}
}

func (p *KafkaPublisher) PublishRefresh(ctx context.Context, symbol string, points int) error {
	return p.publish(ctx, envelope{
		Event:      EventSeriesRefreshed,
		Symbol:     symbol,
		Points:     points,
		OccurredAt: p.now().UTC().Format(time.RFC3339),
	})
}

func (p *KafkaPublisher) PublishSync(ctx context.Context, symbol string) error {
	return p.publish(ctx, envelope{
		Event:      EventCacheSynced,
		Symbol:     symbol,
		OccurredAt: p.now().UTC().Format(time.RFC3339),
	})
}

func (p *KafkaPublisher) publish(ctx context.Context, e envelope) error {
	return p.producer.Publish(ctx, p.topic, []byte(e.Symbol), e)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher satisfies the publisher contract when eventing is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishRefresh(context.Context, string, int) error { return nil }
func (NopPublisher) PublishSync(context.Context, string) error         { return nil }
func (NopPublisher) Close() error                                      { return nil }

var (
	_ repository.Publisher = (*KafkaPublisher)(nil)
	_ repository.Publisher = NopPublisher{}
)
