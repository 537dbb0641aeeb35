package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AliOraei78/MusicLibrarySystem/internal/config/env"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// A slow cache must not hold up album reads; a timed out lookup is a miss.
	cacheDialTimeout = 2 * time.Second
	cacheIOTimeout   = 500 * time.Millisecond
	cacheMaxRetries  = 1
)

// cacheClientName names the connection in CLIENT LIST, e.g. "music-library-api-cache".
func cacheClientName(appName string) string {
	name := strings.ToLower(strings.Join(strings.Fields(appName), "-"))
	if name == "" {
		name = "music-library"
	}
	return name + "-cache"
}

// NewCacheClient opens the Redis connection backing the shared album read cache.
func NewCacheClient(log *logrus.Logger, config *env.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:       config.Redis.Address,
		Password:   config.Redis.Password,
		DB:         config.Redis.DB,
		ClientName: cacheClientName(config.App.Name),

		PoolSize:        config.Redis.Pool.Size,
		MinIdleConns:    config.Redis.Pool.MinIdle,
		MaxIdleConns:    config.Redis.Pool.MaxIdle,
		ConnMaxLifetime: time.Duration(config.Redis.Pool.Lifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(config.Redis.Pool.IdleTimeout) * time.Second,

		DialTimeout:           cacheDialTimeout,
		ReadTimeout:           cacheIOTimeout,
		WriteTimeout:          cacheIOTimeout,
		ContextTimeoutEnabled: true,
		MaxRetries:            cacheMaxRetries,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cacheDialTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping cache redis at %s: %w", config.Redis.Address, err)
	}

	log.WithFields(logrus.Fields{
		"addr":   config.Redis.Address,
		"db":     config.Redis.DB,
		"client": rdb.Options().ClientName,
	}).Info("album cache connected to redis")
	return rdb, nil
}
