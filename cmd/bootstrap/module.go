package bootstrap

import (
	"venue-booking-gateway/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	StorageModule,
	EventsModule,
	components.ClientModule,
	components.UseCaseModule,
	components.HandlerModule,
)
