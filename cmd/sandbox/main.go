// Command sandbox serves an in-memory booking API for local development and demos.
package main

import (
	"context"
	"log/slog"
	"os"

	"venue-booking-gateway/cmd/bootstrap"

	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		bootstrap.SandboxModule,
		fx.NopLogger,
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("failed to start sandbox", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("failed to stop sandbox cleanly", "error", err)
	}
}
