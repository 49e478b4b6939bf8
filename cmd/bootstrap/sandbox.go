package bootstrap

import (
	"log/slog"

	"venue-booking-gateway/internal/handler/middleware"
	"venue-booking-gateway/internal/pkg/clock"
	"venue-booking-gateway/internal/pkg/config"
	"venue-booking-gateway/internal/sandbox"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// SandboxModule wires the in-memory server of record behind its own gin engine.
var SandboxModule = fx.Options(
	sandboxConfigModule,
	LoggerModule,
	fx.Module("sandbox",
		fx.Provide(
			clock.NewRealClock,
			sandbox.NewServer,
			func() *gin.Engine { return gin.New() },
		),
		fx.Invoke(startSandbox),
	),
)

func startSandbox(lc fx.Lifecycle, engine *gin.Engine, server *sandbox.Server, cfg config.SandboxConfig, l *middleware.Logger, logger *slog.Logger) {
	engine.Use(middleware.CustomRecovery(), l.LoggingMiddleware())
	server.Register(engine)
	logger.Info("sandbox seeded", "seed_user", sandbox.SeedEmail)
	ServeHTTP(lc, "sandbox", ":"+cfg.Port, engine, logger)
}
