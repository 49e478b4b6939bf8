package events

import (
	"context"
	"log/slog"
)

// LogPublisher is used when no brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, topic string, e Event) error {
	p.logger.InfoContext(ctx, "event",
		"topic", topic,
		"type", e.Type,
		"key", e.Key,
		"attributes", e.Attributes,
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
