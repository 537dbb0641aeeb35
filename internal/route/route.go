package route

import (
	"github.com/AliOraei78/MusicLibrarySystem/internal/controller"
	"github.com/AliOraei78/MusicLibrarySystem/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// RouteConfig handles route registration
type RouteConfig struct {
	App *fiber.App
}

// NewRouteConfig initializes the router
func NewRouteConfig(app *fiber.App) *RouteConfig {
	return &RouteConfig{app}
}

func (r *RouteConfig) WelcomeRoutes(welcomeController *controller.WelcomeController) {
	r.App.Get("/", welcomeController.Hello)
}

// MetricsRoutes exposes the Prometheus registry.
func (r *RouteConfig) MetricsRoutes() {
	r.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
}

// RegisterAlbumRoutes defines album routes. Static segments are registered before /:id.
func (r *RouteConfig) RegisterAlbumRoutes(albumController *controller.AlbumController, sessionMiddleware fiber.Handler) {
	albums := r.App.Group("/api/albums")
	{
		albums.Get("/", albumController.List)
		albums.Get("/cached", albumController.ListCached)
		albums.Get("/session", sessionMiddleware, albumController.ListWithSession)
		albums.Get("/buffered", albumController.Buffered)
		albums.Get("/unbuffered", albumController.Unbuffered)
		albums.Get("/albums-and-tracks", albumController.AlbumsAndTracks)
		albums.Get("/by-artist/:artist", albumController.ByArtist)
		albums.Get("/first-by-year/:year", albumController.FirstByYear)
		albums.Get("/first-by-title/:title", albumController.FirstByTitle)
		albums.Get("/single/:id", albumController.Single)
		albums.Get("/single-or-default/:id", albumController.SingleOrDefault)
		albums.Get("/with-tracks/:albumId", albumController.WithTracks)
		albums.Get("/:id/detail", albumController.Detail)
		albums.Get("/:id", albumController.Get)

		albums.Post("/", albumController.Create)
		albums.Put("/:id", albumController.Update)
		albums.Delete("/:id", albumController.Delete)

		albums.Post("/tracks/sp", albumController.AddTrackViaProcedure)
		albums.Post("/tracks/batch", albumController.InsertTracks)
		albums.Put("/tracks/batch/duration", albumController.UpdateTrackDurations)
		albums.Delete("/tracks/batch", albumController.DeleteShortTracks)
		albums.Post("/transactional", albumController.CreateTransactional)
		albums.Post("/transaction-scope", albumController.CreateTransactionScope)
	}
}

func (r *RouteConfig) RegisterReportRoutes(reportController *controller.ReportController) {
	reports := r.App.Group("/api/reports")
	{
		reports.Get("/total-tracks", reportController.TotalTracks)
		reports.Get("/top-albums", reportController.TopAlbums)
		reports.Get("/stats", reportController.Stats)
	}
}
