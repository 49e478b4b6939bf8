package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"venue-booking-gateway/internal/apiclient"
	"venue-booking-gateway/internal/infra/credstore"
	"venue-booking-gateway/internal/pkg/config"

	"go.uber.org/fx"
)

var StorageModule = fx.Module("storage",
	fx.Provide(
		fx.Annotate(
			NewCredentialStore,
			fx.As(new(apiclient.CredentialStore)),
		),
	),
)

// NewCredentialStore opens the configured backend and rehydrates the credential before
// any request is served.
func NewCredentialStore(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*credstore.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, closeFn, err := credstore.Open(ctx, cfg.CredentialStore, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			closeFn()
			return nil
		},
	})

	return store, nil
}
