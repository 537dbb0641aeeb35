package main

import (
	"context"

	"github.com/AliOraei78/MusicLibrarySystem/db/seeder"
	"github.com/AliOraei78/MusicLibrarySystem/internal/cache"
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/database"
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/env"
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/logger"
	"github.com/AliOraei78/MusicLibrarySystem/internal/repository"
)

func main() {
	config := env.NewConfig()
	log := logger.NewLogger(config)
	sqlDB := database.NewDatabase(log, config)
	defer sqlDB.Close()

	provider := repository.NewConnectionProvider("primary", sqlDB, log)
	repo := repository.NewAlbumRepository(provider, cache.NewMemoryStore(), config.GetCacheTTL(), log)

	if err := seeder.Seed(context.Background(), sqlDB, repo, log); err != nil {
		log.WithError(err).Fatal("failed to seed database")
	}
	log.Info("database seeded")
}
