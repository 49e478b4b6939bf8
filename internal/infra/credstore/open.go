package credstore

import (
	"context"
	"log/slog"

	"venue-booking-gateway/internal/infra/db"
	"venue-booking-gateway/internal/pkg/config"
	"venue-booking-gateway/internal/pkg/errs"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Open builds the persister named by cfg.Backend, wraps it in a Store and rehydrates
// it. The returned func releases the backend's connections.
func Open(ctx context.Context, cfg config.CredentialStoreConfig, logger *slog.Logger) (*Store, func(), error) {
	persister, closeFn, err := openPersister(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	store := NewStore(persister, cfg.Key, logger.With("backend", cfg.Backend))
	if err := store.Rehydrate(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return store, closeFn, nil
}

func openPersister(ctx context.Context, cfg config.CredentialStoreConfig) (Persister, func(), error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryPersister(), func() {}, nil

	case BackendRedis:
		p, err := NewRedisPersister(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		if err := p.Ping(ctx); err != nil {
			_ = p.Close()
			return nil, nil, errs.Wrap(err, "redis unreachable")
		}
		return p, func() { _ = p.Close() }, nil

	case BackendPostgres:
		pool, cleanup, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx, pool); err != nil {
			cleanup()
			return nil, nil, err
		}
		return NewPostgresPersister(pool), cleanup, nil

	default:
		return nil, nil, errs.Newf("unknown credential backend %q", cfg.Backend)
	}
}
