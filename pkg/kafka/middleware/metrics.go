package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"stallmap/pkg/kafka"
)

// Metrics counts Kafka operations of one service.
type Metrics struct {
	messagesPublished       atomic.Int64
	messagesPublishedFailed atomic.Int64
	publishDurationTotal    atomic.Int64 // Nanoseconds

	messagesConsumed       atomic.Int64
	messagesConsumedFailed atomic.Int64
	consumeDurationTotal   atomic.Int64 // Nanoseconds
}

// Snapshot is a point-in-time copy of the counters, suitable for a
// readiness report.
type Snapshot struct {
	Published          int64  `json:"published"`
	PublishFailed      int64  `json:"publishFailed"`
	AvgPublishDuration string `json:"avgPublishDuration"`
	Consumed           int64  `json:"consumed"`
	ConsumeFailed      int64  `json:"consumeFailed"`
	AvgConsumeDuration string `json:"avgConsumeDuration"`
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Published:          m.messagesPublished.Load(),
		PublishFailed:      m.messagesPublishedFailed.Load(),
		AvgPublishDuration: average(m.publishDurationTotal.Load(), m.messagesPublished.Load()+m.messagesPublishedFailed.Load()).String(),
		Consumed:           m.messagesConsumed.Load(),
		ConsumeFailed:      m.messagesConsumedFailed.Load(),
		AvgConsumeDuration: average(m.consumeDurationTotal.Load(), m.messagesConsumed.Load()+m.messagesConsumedFailed.Load()).String(),
	}
}

func average(total, n int64) time.Duration {
	if n == 0 {
		return 0
	}
	return time.Duration(total / n)
}

// ProducerMiddleware tracks producer metrics
func (m *Metrics) ProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		m.publishDurationTotal.Add(int64(time.Since(start)))
		if err != nil {
			m.messagesPublishedFailed.Add(1)
		} else {
			m.messagesPublished.Add(1)
		}

		return err
	}
}

// ConsumerMiddleware tracks consumer metrics
func (m *Metrics) ConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()

		err := next(ctx, msg)

		m.consumeDurationTotal.Add(int64(time.Since(start)))
		if err != nil {
			m.messagesConsumedFailed.Add(1)
		} else {
			m.messagesConsumed.Add(1)
		}

		return err
	}
}
