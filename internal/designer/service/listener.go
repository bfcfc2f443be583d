package service

import (
	"context"
	"fmt"

	"stallmap/pkg/kafka"
	"stallmap/pkg/logger"
	"stallmap/pkg/model"
)

// LayoutListener handles layout.updated notifications from the layout store
// by flagging the sessions they make stale.
type LayoutListener struct {
	service DesignerService
	log     *logger.Logger
}

func NewLayoutListener(service DesignerService, log *logger.Logger) *LayoutListener {
	return &LayoutListener{service: service, log: log}
}

// Handle is a kafka.MessageHandler. A malformed payload is permanent and
// goes to the dead letter topic.
func (l *LayoutListener) Handle(ctx context.Context, msg kafka.Message) error {
	var evt model.LayoutUpdated
	if err := msg.DecodeValue(&evt); err != nil {
		return kafka.NewPermanentError("decode layout.updated", err)
	}
	if evt.EventID <= 0 {
		return kafka.NewPermanentError("decode layout.updated", fmt.Errorf("invalid event id %d", evt.EventID))
	}

	origin := msg.GetSessionID()
	if origin == "" {
		origin = evt.SessionID
	}

	marked := l.service.MarkStale(evt.EventID, origin)
	l.log.Debug("Layout update received",
		"event_id", evt.EventID,
		"kind", evt.Kind,
		"source", evt.Source,
		"origin_session", origin,
		"sessions_marked", marked,
	)
	return nil
}
