package bootstrap

import (
	"context"
	"log/slog"

	"venue-booking-gateway/internal/apiclient"
	"venue-booking-gateway/internal/infra/events"
	"venue-booking-gateway/internal/pkg/config"
	"venue-booking-gateway/internal/usecase/commands"

	"go.uber.org/fx"
)

var EventsModule = fx.Module("events",
	fx.Provide(
		fx.Annotate(
			NewPublisher,
			fx.As(new(events.Publisher)),
			fx.As(new(commands.EventPublisher)),
		),
		fx.Annotate(
			NewSessionNotifier,
			fx.As(new(apiclient.SessionObserver)),
		),
	),
)

// NewPublisher falls back to logging events when no Kafka brokers are configured.
func NewPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) events.Publisher {
	var pub events.Publisher
	if len(cfg.Events.Brokers) == 0 {
		logger.Info("no kafka brokers configured, events are logged only")
		pub = events.NewLogPublisher(logger)
	} else {
		pub = events.NewKafkaPublisher(cfg.Events, logger)
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})
	return pub
}

func NewSessionNotifier(pub events.Publisher, cfg config.Config, logger *slog.Logger) *events.SessionNotifier {
	n := events.NewSessionNotifier(pub, cfg.Events.SessionTopic, logger)
	n.OnTerminated(func(cause error) {
		logger.Warn("upstream session terminated, login required", "error", cause)
	})
	return n
}
