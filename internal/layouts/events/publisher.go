package events

import (
	"context"
	"fmt"
	"strconv"

	"stallmap/pkg/kafka"
	"stallmap/pkg/logger"
	"stallmap/pkg/model"
)

const (
	EventTypeLayoutUpdated = "layout.updated"
	SchemaVersion          = "1"
	Source                 = "layouts"
)

// MessagePublisher is the part of kafka.Producer the publisher needs.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type LayoutPublisher interface {
	LayoutUpdated(ctx context.Context, evt model.LayoutUpdated) error
}

type kafkaLayoutPublisher struct {
	producer MessagePublisher
	log      *logger.Logger
}

// NewLayoutPublisher returns a publisher writing to producer. A nil producer
// yields a publisher that drops every notification.
func NewLayoutPublisher(producer MessagePublisher, log *logger.Logger) LayoutPublisher {
	if producer == nil {
		return noopPublisher{}
	}
	return &kafkaLayoutPublisher{producer: producer, log: log}
}

func (p *kafkaLayoutPublisher) LayoutUpdated(ctx context.Context, evt model.LayoutUpdated) error {
	if evt.Source == "" {
		evt.Source = Source
	}
	msg := kafka.NewMessage().
		WithKey(strconv.FormatInt(evt.EventID, 10)).
		WithValue(evt).
		WithEventType(EventTypeLayoutUpdated).
		WithSchemaVersion(SchemaVersion).
		WithSource(evt.Source).
		WithSessionID(evt.SessionID).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish %s for event %d: %w", EventTypeLayoutUpdated, evt.EventID, err)
	}
	p.log.Debug("Layout update published",
		"event_id", evt.EventID,
		"kind", evt.Kind,
		"stalls", evt.Stalls,
	)
	return nil
}

type noopPublisher struct{}

func (noopPublisher) LayoutUpdated(context.Context, model.LayoutUpdated) error { return nil }
