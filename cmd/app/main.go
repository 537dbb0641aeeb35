package main

import (
	"context"

	app "github.com/AliOraei78/MusicLibrarySystem/internal"
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/database"
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/env"
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/logger"
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/monitor"
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/redis"
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/validation"
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/web"
)

func main() {
	config := env.NewConfig()
	log := logger.NewLogger(config)
	monitoring := monitor.NewMonitoring(log, config)
	defer func() {
		if err := monitoring.Shutdown(context.Background()); err != nil {
			log.WithError(err).Warn("failed to flush telemetry")
		}
	}()

	web := web.NewFiber(log, config)
	db := database.NewDatabase(log, config)
	defer db.Close()
	reportDB := database.NewReportDatabase(log, config)
	defer reportDB.Close()
	gorm := database.NewGorm(log, config, db)
	store := redis.NewCacheStore(log, config)
	validation := validation.NewValidation()

	server := app.NewApp(log, config, db, reportDB, gorm, store, web, validation)
	if err := server.Run(); err != nil {
		log.WithError(err).Error("failed to start server")
	}
}
