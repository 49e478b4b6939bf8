package components

import (
	"venue-booking-gateway/internal/handler"
	"venue-booking-gateway/internal/handler/api"
	"venue-booking-gateway/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// HandlerModule mounts the gateway routes on a fresh engine. The caller starts serving it.
var HandlerModule = fx.Module("handler",
	fx.Provide(
		func() *gin.Engine { return gin.New() },
		api.NewAuthHandler,
		api.NewBookingHandler,
		api.NewPaymentHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
