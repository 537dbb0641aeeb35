package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// redisClient is the part of *redis.Client the store needs.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore shares cache entries between instances. Redis expires keys itself.
type RedisStore struct {
	client redisClient
	logger *logrus.Logger
	tracer trace.Tracer
}

func NewRedisStore(client redisClient, logger *logrus.Logger) *RedisStore {
	return &RedisStore{client, logger, otel.Tracer("RedisStore")}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	spanCtx, span := r.tracer.Start(ctx, "RedisStore.Get")
	defer span.End()

	cached, err := r.client.Get(spanCtx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.logger.WithContext(spanCtx).WithField("key", key).Debug("cache miss")
		return nil, false, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, false, err
	}

	r.logger.WithContext(spanCtx).WithField("key", key).Debug("cache hit")
	return cached, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	spanCtx, span := r.tracer.Start(ctx, "RedisStore.Set")
	defer span.End()

	if err := r.client.Set(spanCtx, key, value, ttl).Err(); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}
