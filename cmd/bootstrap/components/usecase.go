package components

import (
	"log/slog"

	"venue-booking-gateway/internal/pkg/clock"
	"venue-booking-gateway/internal/pkg/config"
	"venue-booking-gateway/internal/usecase/commands"
	"venue-booking-gateway/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	commands.NewAttemptRegistry,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewBookingCommands,
		NewPaymentCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		NewBookingQueries,
	),
)

// NewPaymentCommands has no in-process checkout: HTTP callers drive Begin and Settle.
func NewPaymentCommands(
	payments commands.PaymentGateway,
	publisher commands.EventPublisher,
	cfg config.Config,
	clk clock.Clock,
	logger *slog.Logger,
) commands.PaymentCommands {
	return commands.NewPaymentCommands(payments, nil, publisher, cfg, clk, logger)
}

func NewBookingQueries(reader queries.BookingReader, cfg config.Config) queries.BookingQueries {
	return queries.NewBookingQueries(reader, cfg.Payment.MaxRetries)
}
