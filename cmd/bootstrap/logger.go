package bootstrap

import (
	"venue-booking-gateway/internal/handler/middleware"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		middleware.NewLogger,
		(*middleware.Logger).GetSlogLogger,
	),
)
