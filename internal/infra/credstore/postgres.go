package credstore

import (
	"context"
	"errors"

	"venue-booking-gateway/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	loadStateSQL   = `SELECT value FROM client_state WHERE key = $1`
	saveStateSQL   = `INSERT INTO client_state (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	deleteStateSQL = `DELETE FROM client_state WHERE key = $1`
)

// PostgresPersister keeps client state in the client_state table (see migrations).
type PostgresPersister struct {
	pool *pgxpool.Pool
}

func NewPostgresPersister(pool *pgxpool.Pool) *PostgresPersister {
	return &PostgresPersister{pool: pool}
}

func (p *PostgresPersister) Load(ctx context.Context, key string) (string, error) {
	var value string
	err := p.pool.QueryRow(ctx, loadStateSQL, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", errs.Wrapf(err, "load client state %s", key)
	}
	return value, nil
}

func (p *PostgresPersister) Save(ctx context.Context, key, value string) error {
	_, err := p.pool.Exec(ctx, saveStateSQL, key, value)
	return errs.Wrapf(err, "save client state %s", key)
}

func (p *PostgresPersister) Delete(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, deleteStateSQL, key)
	return errs.Wrapf(err, "delete client state %s", key)
}
