package components

import (
	"log/slog"

	"venue-booking-gateway/internal/apiclient"
	"venue-booking-gateway/internal/handler/middleware"
	"venue-booking-gateway/internal/infra/upstream"
	"venue-booking-gateway/internal/pkg/config"
	"venue-booking-gateway/internal/usecase/commands"
	"venue-booking-gateway/internal/usecase/queries"

	"go.uber.org/fx"
)

var ClientModule = fx.Module("client",
	fx.Provide(
		fx.Annotate(
			NewAPIClient,
			fx.As(new(upstream.JSONDoer)),
			fx.As(new(commands.SessionClient)),
			fx.As(new(middleware.SessionChecker)),
		),
	),
	upstreamModule,
)

var upstreamModule = fx.Module("client/upstream",
	fx.Provide(
		fx.Annotate(
			upstream.NewBookingAPI,
			fx.As(new(commands.BookingGateway)),
			fx.As(new(queries.BookingReader)),
		),
		fx.Annotate(
			upstream.NewPaymentAPI,
			fx.As(new(commands.PaymentGateway)),
		),
	),
)

func NewAPIClient(cfg config.Config, store apiclient.CredentialStore, observer apiclient.SessionObserver, logger *slog.Logger) (*apiclient.Client, error) {
	return apiclient.NewClient(cfg.Upstream, store, observer, logger)
}
