package app

import (
	"database/sql"
	"fmt"

	"github.com/AliOraei78/MusicLibrarySystem/internal/cache"
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/env"
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/validation"
	"github.com/AliOraei78/MusicLibrarySystem/internal/controller"
	"github.com/AliOraei78/MusicLibrarySystem/internal/middleware"
	"github.com/AliOraei78/MusicLibrarySystem/internal/repository"
	"github.com/AliOraei78/MusicLibrarySystem/internal/route"
	"github.com/AliOraei78/MusicLibrarySystem/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type BootstrapConfig struct {
	db         *sql.DB
	reportDB   *sql.DB
	gorm       *gorm.DB
	store      cache.Store
	web        *fiber.App
	log        *logrus.Logger
	config     *env.Config
	validation *validation.Validation
}

func NewApp(log *logrus.Logger, config *env.Config, db, reportDB *sql.DB, gorm *gorm.DB, store cache.Store, web *fiber.App, validation *validation.Validation) *BootstrapConfig {
	return &BootstrapConfig{
		db:         db,
		reportDB:   reportDB,
		gorm:       gorm,
		store:      store,
		web:        web,
		log:        log,
		config:     config,
		validation: validation,
	}
}

func (app *BootstrapConfig) Bootstrap() {
	// setup connection providers
	primary := repository.NewConnectionProvider("primary", app.db, app.log)
	report := repository.NewConnectionProvider("report", app.reportDB, app.log)

	// setup repositories
	albumRepository := repository.NewAlbumRepository(primary, app.store, app.config.GetCacheTTL(), app.log)
	albumORMRepository := repository.NewAlbumORMRepository(app.gorm)
	reportRepository := repository.NewReportRepository(report, app.log)
	hybridRepository := repository.NewHybridRepository(albumRepository, albumORMRepository, reportRepository)

	// setup services
	albumService := service.NewAlbumService(albumRepository, hybridRepository, app.log)
	reportService := service.NewReportService(reportRepository, hybridRepository, app.log)

	// setup controller
	welcomeController := controller.NewWelcomeController(app.config)
	albumController := controller.NewAlbumController(albumService, app.validation, app.log)
	reportController := controller.NewReportController(reportService, app.validation, app.log)

	// setup middleware
	app.web.Use(middleware.Cors(app.config))
	sessionMiddleware := middleware.SessionMiddleware(primary, app.log)

	// setup route
	routeConfig := route.NewRouteConfig(app.web)
	routeConfig.WelcomeRoutes(welcomeController)
	routeConfig.MetricsRoutes()
	routeConfig.RegisterAlbumRoutes(albumController, sessionMiddleware)
	routeConfig.RegisterReportRoutes(reportController)
}

func (app *BootstrapConfig) Run() error {
	app.Bootstrap()
	if err := app.web.Listen(fmt.Sprintf(":%d", app.config.Web.Port)); err != nil {
		app.log.WithError(err).Error("server stopped")
		return err
	}
	return nil
}
