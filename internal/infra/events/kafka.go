package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"venue-booking-gateway/internal/pkg/config"
	"venue-booking-gateway/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	writer       *kafka.Writer
	writeTimeout time.Duration
	logger       *slog.Logger
}

func NewKafkaPublisher(cfg config.EventsConfig, logger *slog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	logger.Info("kafka publisher initialized", "brokers", cfg.Brokers)
	return &KafkaPublisher{writer: w, writeTimeout: cfg.WriteTimeout, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, e Event) error {
	msg, err := toMessage(topic, e)
	if err != nil {
		return err
	}
	if p.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.writeTimeout)
		defer cancel()
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errs.Wrapf(err, "failed to publish %s to %s", e.Type, topic)
	}
	p.logger.DebugContext(ctx, "event published", "topic", topic, "type", e.Type, "key", e.Key)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// toMessage keys by e.Key so events for one booking land on one partition in order.
func toMessage(topic string, e Event) (kafka.Message, error) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, errs.Wrap(err, "failed to encode event")
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(e.Key),
		Value: data,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(e.Type)},
		},
	}, nil
}
