// Package cache is a read-through cache for query results. Entries expire at an absolute
// time set when they are written; nothing invalidates them earlier.
package cache

import (
	"context"
	"time"

	"github.com/AliOraei78/MusicLibrarySystem/internal/metrics"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// Store keeps encoded values until their TTL passes. Get reports ok=false for a missing
// or expired key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// FetchFn loads a value from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// GetOrLoad returns the cached value for key, or calls fetch and stores its result for ttl.
// Fetch errors are returned as-is and leave any existing entry alone. Concurrent misses
// each call fetch; the last writer wins.
func GetOrLoad[T any](ctx context.Context, store Store, log *logrus.Logger, key string, ttl time.Duration, fetch FetchFn[T]) (T, error) {
	logger := log.WithContext(ctx).WithField("key", key)

	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		logger.WithError(err).Warn("cache read failed, loading from source")
	}
	if ok {
		var cached T
		err := json.Unmarshal(raw, &cached)
		if err == nil {
			metrics.CacheLookups.WithLabelValues(key, "hit").Inc()
			return cached, nil
		}
		logger.WithError(err).Warn("cache entry could not be decoded")
	}
	metrics.CacheLookups.WithLabelValues(key, "miss").Inc()

	value, err := fetch(ctx)
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		logger.WithError(err).Warn("failed to encode value for cache")
		return value, nil
	}
	if err := store.Set(ctx, key, encoded, ttl); err != nil {
		logger.WithError(err).Warn("failed to store value in cache")
	}
	return value, nil
}
