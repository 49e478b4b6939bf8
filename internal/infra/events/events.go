package events

import (
	"context"
	"time"
)

const (
	TypeSessionTerminated = "session.terminated"
	TypePaymentSucceeded  = "payment.succeeded"
	TypePaymentFailed     = "payment.failed"
)

type Event struct {
	Type       string            `json:"type"`
	Key        string            `json:"key"`
	OccurredAt time.Time         `json:"occurredAt"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, topic string, e Event) error
	Close() error
}
