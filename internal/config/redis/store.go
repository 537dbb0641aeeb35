package redis

import (
	"github.com/AliOraei78/MusicLibrarySystem/internal/cache"
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/env"
	"github.com/AliOraei78/MusicLibrarySystem/internal/constant"

	"github.com/sirupsen/logrus"
)

// NewCacheStore picks the read cache backend from cache.backend. Only the redis backend
// opens a connection; when Redis cannot be reached the store degrades to in-process memory.
func NewCacheStore(log *logrus.Logger, config *env.Config) cache.Store {
	switch config.Cache.Backend {
	case constant.CacheBackendRedis:
		client, err := NewCacheClient(log, config)
		if err != nil {
			log.WithError(err).Warn("redis cache unavailable, using in-memory album cache")
			return cache.NewMemoryStore()
		}
		return cache.NewRedisStore(client, log)
	case "", constant.CacheBackendMemory:
		return cache.NewMemoryStore()
	default:
		log.Fatalf("unknown cache backend %q", config.Cache.Backend)
		return nil
	}
}
