package kafka

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProducerClosed = errors.New("kafka producer is closed")
	ErrConsumerClosed = errors.New("kafka consumer is closed")
	ErrEmptyKey       = errors.New("message key cannot be empty")
	ErrEmptyValue     = errors.New("message value cannot be empty")

	// ErrTransientFailure and ErrPermanentFailure let handlers classify a
	// plain error without building a KafkaError.
	ErrTransientFailure = errors.New("transient failure")
	ErrPermanentFailure = errors.New("permanent failure")
)

// ErrorType decides whether the consumer retries a failed message.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeTransient is retried: broker hiccups, timeouts, a busy session.
	ErrorTypeTransient
	// ErrorTypePermanent goes straight to the DLQ: undecodable payloads.
	ErrorTypePermanent
)

// KafkaError tags an error with its retry classification.
type KafkaError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *KafkaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *KafkaError) Unwrap() error {
	return e.Err
}

func NewTransientError(message string, err error) *KafkaError {
	return &KafkaError{Type: ErrorTypeTransient, Message: message, Err: err}
}

func NewPermanentError(message string, err error) *KafkaError {
	return &KafkaError{Type: ErrorTypePermanent, Message: message, Err: err}
}

var transientPatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"network is unreachable",
	"i/o timeout",
	"timeout",
	"deadline exceeded",
	"temporary failure",
}

// ClassifyError reports how err should be handled. Errors that match no
// known transient cause are permanent, so a poison message is dead lettered
// instead of retried.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}

	var kafkaErr *KafkaError
	if errors.As(err, &kafkaErr) {
		return kafkaErr.Type
	}
	if errors.Is(err, ErrTransientFailure) {
		return ErrorTypeTransient
	}
	if errors.Is(err, ErrPermanentFailure) {
		return ErrorTypePermanent
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return ErrorTypeTransient
		}
	}
	return ErrorTypePermanent
}

// ShouldRetry reports whether a message that failed with err gets another
// attempt after currentRetries.
func ShouldRetry(err error, currentRetries, maxRetries int) bool {
	if err == nil || currentRetries >= maxRetries {
		return false
	}
	return ClassifyError(err) == ErrorTypeTransient
}
