package events

import (
	"context"
	"log/slog"
	"time"

	"venue-booking-gateway/internal/pkg/errs"
)

// SessionNotifier turns a failed credential renewal into a session.terminated event.
type SessionNotifier struct {
	publisher Publisher
	topic     string
	logger    *slog.Logger
	listeners []func(cause error)
}

func NewSessionNotifier(publisher Publisher, topic string, logger *slog.Logger) *SessionNotifier {
	return &SessionNotifier{publisher: publisher, topic: topic, logger: logger}
}

// OnTerminated registers an in-process listener. Not safe to call after startup.
func (n *SessionNotifier) OnTerminated(fn func(cause error)) {
	n.listeners = append(n.listeners, fn)
}

func (n *SessionNotifier) SessionTerminated(ctx context.Context, cause error) {
	for _, fn := range n.listeners {
		fn(cause)
	}
	e := Event{
		Type:       TypeSessionTerminated,
		Key:        "session",
		OccurredAt: time.Now(),
		Attributes: map[string]string{"reason": errs.HumanReason(cause)},
	}
	if err := n.publisher.Publish(ctx, n.topic, e); err != nil {
		n.logger.WarnContext(ctx, "failed to publish session terminated event", "error", err)
	}
}
