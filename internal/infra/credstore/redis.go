package credstore

import (
	"context"
	"errors"

	"venue-booking-gateway/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "gateway:client-state:"

type RedisPersister struct {
	client *redis.Client
}

func NewRedisPersister(url string) (*RedisPersister, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errs.Wrap(err, "invalid redis url")
	}
	return &RedisPersister{client: redis.NewClient(opts)}, nil
}

func (p *RedisPersister) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *RedisPersister) Load(ctx context.Context, key string) (string, error) {
	v, err := p.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", errs.Wrapf(err, "redis get %s", key)
	}
	return v, nil
}

// Save stores without expiry; the server decides when the credential is dead.
func (p *RedisPersister) Save(ctx context.Context, key, value string) error {
	return errs.Wrapf(p.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(), "redis set %s", key)
}

func (p *RedisPersister) Delete(ctx context.Context, key string) error {
	return errs.Wrapf(p.client.Del(ctx, redisKeyPrefix+key).Err(), "redis del %s", key)
}

func (p *RedisPersister) Close() error {
	return p.client.Close()
}
