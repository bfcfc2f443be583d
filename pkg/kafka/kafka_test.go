package kafka

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stallmap/pkg/logger"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func quiet() *logger.Logger {
	return logger.New(logger.Config{Output: io.Discard})
}

func TestMessageBuilder(t *testing.T) {
	msg := NewMessage().
		WithKey("42").
		WithValue(map[string]int{"eventId": 42}).
		WithEventType("layout.updated").
		WithSource("layouts").
		WithSessionID("sess-1").
		Build()

	assert.Equal(t, "42", msg.Key)
	assert.JSONEq(t, `{"eventId":42}`, string(msg.Value))
	assert.NotEmpty(t, msg.GetEventID())
	assert.Equal(t, "layout.updated", msg.GetEventType())
	assert.Equal(t, "sess-1", msg.GetSessionID())
	assert.NotEmpty(t, msg.Headers[HeaderTimestamp])

	empty := NewMessage().WithSessionID("").Build()
	_, ok := empty.GetHeader(HeaderSessionID)
	assert.False(t, ok)
}

func TestMessage_RetryCount(t *testing.T) {
	msg := Message{}
	assert.Equal(t, 0, msg.GetRetryCount())

	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	assert.Equal(t, 12, msg.GetRetryCount())
	assert.Equal(t, "12", msg.Headers[HeaderRetryCount])
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"kafka error", NewPermanentError("decode", nil), ErrorTypePermanent},
		{"transient sentinel", ErrTransientFailure, ErrorTypeTransient},
		{"wrapped transient", NewTransientError("fetch", errors.New("x")), ErrorTypeTransient},
		{"network pattern", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"permanent pattern", errors.New("Deserialization failed"), ErrorTypePermanent},
		{"unknown", errors.New("something odd"), ErrorTypePermanent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := errors.New("i/o timeout")
	assert.True(t, ShouldRetry(transient, 0, 3))
	assert.False(t, ShouldRetry(transient, 3, 3))
	assert.False(t, ShouldRetry(errors.New("invalid message"), 0, 3))
	assert.False(t, ShouldRetry(nil, 0, 3))
}

func TestProducer_PublishRunsMiddlewareInOrder(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, topic: "layout.updated", log: quiet()}

	var order []string
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		order = append(order, "outer:"+msg.Topic)
		return next(ctx, msg)
	})
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		order = append(order, "inner")
		return next(ctx, msg)
	})

	msg := NewMessage().WithKey("7").WithRawValue([]byte(`{}`)).WithEventType("layout.updated").Build()
	require.NoError(t, p.Publish(context.Background(), msg))

	assert.Equal(t, []string{"outer:layout.updated", "inner"}, order)
	require.Len(t, w.messages, 1)
	assert.Equal(t, "7", string(w.messages[0].Key))
	assert.Equal(t, "layout.updated", header(w.messages[0], HeaderEventType))
}

func TestProducer_RejectsInvalid(t *testing.T) {
	p := &Producer{writer: &fakeWriter{}, topic: "t", log: quiet()}

	assert.ErrorIs(t, p.Publish(context.Background(), Message{Value: []byte("x")}), ErrEmptyKey)
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k"}), ErrEmptyValue)

	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k", Value: []byte("x")}), ErrProducerClosed)
}

func TestProducer_FailedPublishGoesToDLQ(t *testing.T) {
	brokerErr := errors.New("leader not available")
	dlq := &fakeWriter{}
	p := &Producer{writer: &fakeWriter{err: brokerErr}, dlqWriter: dlq, topic: "layout.updated", log: quiet()}

	msg := NewMessage().WithKey("7").WithRawValue([]byte(`{}`)).Build()
	err := p.Publish(context.Background(), msg)

	assert.ErrorIs(t, err, brokerErr)
	require.Len(t, dlq.messages, 1)
	assert.Equal(t, "layout.updated", header(dlq.messages[0], HeaderOriginalTopic))
	assert.Equal(t, "leader not available", header(dlq.messages[0], "dlq-error"))
	_, leaked := msg.Headers[HeaderOriginalTopic]
	assert.False(t, leaked, "the caller's headers are not modified")
}

func TestConsumer_RetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	c := &Consumer{
		topic:      "layout.updated",
		maxRetries: 3,
		log:        quiet(),
		handler: func(ctx context.Context, msg Message) error {
			calls++
			if calls < 3 {
				return NewTransientError("session busy", nil)
			}
			return nil
		},
	}

	require.NoError(t, c.processMessage(context.Background(), Message{Headers: map[string]string{}}))
	assert.Equal(t, 3, calls)
}

func TestConsumer_PermanentFailureIsDeadLettered(t *testing.T) {
	dlq := &fakeWriter{}
	calls := 0
	c := &Consumer{
		topic:      "layout.updated",
		groupID:    "designer",
		maxRetries: 3,
		dlqWriter:  dlq,
		log:        quiet(),
		handler: func(ctx context.Context, msg Message) error {
			calls++
			return NewPermanentError("bad payload", nil)
		},
	}

	err := c.processMessage(context.Background(), Message{Key: "7", Headers: map[string]string{}})

	assert.Error(t, err)
	assert.Equal(t, 1, calls, "permanent failures are not retried")
	require.Len(t, dlq.messages, 1)
	assert.Equal(t, "designer", header(dlq.messages[0], "dlq-consumer-group"))
}

func TestConvertMessage(t *testing.T) {
	msg := convertMessage(kafka.Message{
		Topic:   "layout.updated",
		Key:     []byte("7"),
		Value:   []byte(`{}`),
		Offset:  12,
		Headers: []kafka.Header{{Key: HeaderSessionID, Value: []byte("sess-1")}},
	})

	assert.Equal(t, "7", msg.Key)
	assert.Equal(t, int64(12), msg.Offset)
	assert.Equal(t, "sess-1", msg.GetSessionID())
}
