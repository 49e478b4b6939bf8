// Command gateway serves the booking and payment API in front of the server of record.
package main

import (
	"context"
	"log/slog"
	"os"

	"venue-booking-gateway/cmd/bootstrap"
	"venue-booking-gateway/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Never expose debug output because of a misconfigured environment
	gin.SetMode(gin.ReleaseMode)

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
}

// @title           venue-booking-gateway
// @version         1.0
// @description     Authenticated gateway in front of the venue booking API.

// @BasePath  /
// @schemes http https
func startServer(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	gin.EnableJsonDecoderDisallowUnknownFields()
	logger.Info("gateway configured", "upstream", cfg.Upstream.BaseURL, "credential_backend", cfg.CredentialStore.Backend)
	bootstrap.ServeHTTP(lc, "gateway", ":"+cfg.Server.Port, engine, logger)
}

func main() {
	app := fx.New(
		bootstrap.Module,
		fx.Invoke(startServer),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("failed to start gateway", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("failed to stop gateway cleanly", "error", err)
	}
}
