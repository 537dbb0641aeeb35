package controller

import (
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/validation"
	"github.com/AliOraei78/MusicLibrarySystem/internal/dto"
	"github.com/AliOraei78/MusicLibrarySystem/internal/middleware"
	"github.com/AliOraei78/MusicLibrarySystem/internal/service"
	"github.com/AliOraei78/MusicLibrarySystem/internal/utils/errcode"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type AlbumController struct {
	albumService *service.AlbumService
	validation   *validation.Validation
	logger       *logrus.Logger
	tracer       trace.Tracer
}

func NewAlbumController(albumService *service.AlbumService, validation *validation.Validation, logger *logrus.Logger) *AlbumController {
	return &AlbumController{albumService, validation, logger, otel.Tracer("AlbumController")}
}

func (c *AlbumController) idParam(ctx *fiber.Ctx, name string) (int64, error) {
	id, err := ctx.ParamsInt(name)
	if err != nil || id <= 0 {
		c.logger.WithContext(ctx.UserContext()).WithField(name, ctx.Params(name)).Warn("invalid path parameter")
		return 0, errcode.ErrBadRequest
	}
	return int64(id), nil
}

// listSource reports the read path for an accepted strategy query value.
func listSource(strategy string) string {
	if strategy == "" {
		return dto.SourceProjection
	}
	return strategy
}

func (c *AlbumController) List(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "List")
	defer span.End()

	strategy := ctx.Query("strategy")
	albums, err := c.albumService.List(userContext, strategy)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.NewListResponse(albums, listSource(strategy)))
}

func (c *AlbumController) ListCached(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "ListCached")
	defer span.End()

	albums, err := c.albumService.ListCached(userContext)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.NewListResponse(albums, dto.SourceCache))
}

// ListWithSession must be mounted behind middleware.SessionMiddleware.
func (c *AlbumController) ListWithSession(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "ListWithSession")
	defer span.End()

	albums, err := c.albumService.ListWithSession(userContext, middleware.GetSession(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(dto.NewListResponse(albums, dto.SourceSession))
}

func (c *AlbumController) Get(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "Get")
	defer span.End()

	id, err := c.idParam(ctx, "id")
	if err != nil {
		return err
	}
	album, err := c.albumService.Get(userContext, id, ctx.Query("strategy"))
	if err != nil {
		return err
	}
	return ctx.JSON(dto.WebResponse[*dto.AlbumResponse]{Data: album})
}

func (c *AlbumController) ByArtist(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "ByArtist")
	defer span.End()

	albums, err := c.albumService.ListByArtist(userContext, ctx.Params("artist"))
	if err != nil {
		return err
	}
	return ctx.JSON(dto.NewListResponse(albums, dto.SourceProjection))
}

func (c *AlbumController) FirstByYear(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "FirstByYear")
	defer span.End()

	year, err := ctx.ParamsInt("year")
	if err != nil {
		return errcode.ErrBadRequest
	}
	album, err := c.albumService.FirstByYear(userContext, year)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.WebResponse[*dto.AlbumResponse]{Data: album})
}

func (c *AlbumController) FirstByTitle(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "FirstByTitle")
	defer span.End()

	album, err := c.albumService.FirstByTitle(userContext, ctx.Params("title"))
	if err != nil {
		return err
	}
	return ctx.JSON(dto.WebResponse[*dto.AlbumResponse]{Data: album})
}

func (c *AlbumController) Single(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "Single")
	defer span.End()

	id, err := c.idParam(ctx, "id")
	if err != nil {
		return err
	}
	album, err := c.albumService.Single(userContext, id)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.WebResponse[*dto.AlbumResponse]{Data: album})
}

// SingleOrDefault answers 200 with null data when nothing matches.
func (c *AlbumController) SingleOrDefault(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "SingleOrDefault")
	defer span.End()

	id, err := c.idParam(ctx, "id")
	if err != nil {
		return err
	}
	album, err := c.albumService.SingleOrDefault(userContext, id)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.WebResponse[*dto.AlbumResponse]{Data: album})
}

func (c *AlbumController) WithTracks(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "WithTracks")
	defer span.End()

	id, err := c.idParam(ctx, "albumId")
	if err != nil {
		return err
	}
	album, err := c.albumService.WithTracks(userContext, id, ctx.Query("strategy"))
	if err != nil {
		return err
	}
	return ctx.JSON(dto.WebResponse[*dto.AlbumWithTracksResponse]{Data: album})
}

func (c *AlbumController) Detail(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "Detail")
	defer span.End()

	id, err := c.idParam(ctx, "id")
	if err != nil {
		return err
	}
	detail, err := c.albumService.Detail(userContext, id)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.WebResponse[*dto.AlbumDetailResponse]{Data: detail})
}

func (c *AlbumController) AlbumsAndTracks(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "AlbumsAndTracks")
	defer span.End()

	result, err := c.albumService.AlbumsAndTracks(userContext)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.WebResponse[*dto.AlbumsAndTracksResponse]{Data: result})
}

func (c *AlbumController) Buffered(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "Buffered")
	defer span.End()

	albums, err := c.albumService.ListBuffered(userContext)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.NewListResponse(albums, dto.SourceBuffered))
}

func (c *AlbumController) Unbuffered(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "Unbuffered")
	defer span.End()

	albums, err := c.albumService.ListStreaming(userContext)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.NewListResponse(albums, dto.SourceStreaming))
}

func (c *AlbumController) Create(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "Create")
	defer span.End()

	req := new(dto.AlbumRequest)
	if err := c.validation.ParseAndValidate(ctx, req); err != nil {
		c.logger.WithContext(userContext).WithError(err).Warn("invalid album request")
		return err
	}
	created, err := c.albumService.Create(userContext, req, ctx.Query("strategy"))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(dto.WebResponse[*dto.CreatedResponse]{Data: created})
}

func (c *AlbumController) Update(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "Update")
	defer span.End()

	id, err := c.idParam(ctx, "id")
	if err != nil {
		return err
	}
	req := new(dto.AlbumRequest)
	if err := c.validation.ParseAndValidate(ctx, req); err != nil {
		c.logger.WithContext(userContext).WithError(err).Warn("invalid album request")
		return err
	}
	if err := c.albumService.Update(userContext, id, req, ctx.Query("strategy")); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *AlbumController) Delete(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "Delete")
	defer span.End()

	id, err := c.idParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.albumService.Delete(userContext, id, ctx.Query("strategy")); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *AlbumController) AddTrackViaProcedure(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "AddTrackViaProcedure")
	defer span.End()

	req := new(dto.AddTrackRequest)
	if err := c.validation.ParseAndValidate(ctx, req); err != nil {
		c.logger.WithContext(userContext).WithError(err).Warn("invalid track request")
		return err
	}
	if err := c.albumService.AddTrackViaProcedure(userContext, req); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(dto.WebResponse[string]{Data: "track added via stored procedure"})
}

func (c *AlbumController) CreateTransactional(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "CreateTransactional")
	defer span.End()

	req := new(dto.AddAlbumWithTracksRequest)
	if err := c.validation.ParseAndValidate(ctx, req); err != nil {
		c.logger.WithContext(userContext).WithError(err).Warn("invalid album with tracks request")
		return err
	}
	created, err := c.albumService.CreateWithTracksTransactional(userContext, req, ctx.Query("strategy"))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(dto.WebResponse[*dto.CreatedResponse]{Data: created})
}

func (c *AlbumController) CreateTransactionScope(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "CreateTransactionScope")
	defer span.End()

	req := new(dto.AddAlbumWithTracksRequest)
	if err := c.validation.ParseAndValidate(ctx, req); err != nil {
		c.logger.WithContext(userContext).WithError(err).Warn("invalid album with tracks request")
		return err
	}
	created, err := c.albumService.CreateWithTracksScoped(userContext, req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(dto.WebResponse[*dto.CreatedResponse]{Data: created})
}

func (c *AlbumController) InsertTracks(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "InsertTracks")
	defer span.End()

	req := new(dto.BatchTracksRequest)
	if err := c.validation.ParseAndValidate(ctx, req); err != nil {
		return err
	}
	rows, err := c.albumService.InsertTracks(userContext, req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(dto.WebResponse[*dto.RowsAffectedResponse]{Data: rows})
}

func (c *AlbumController) UpdateTrackDurations(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "UpdateTrackDurations")
	defer span.End()

	req := new(dto.UpdateDurationRequest)
	if err := c.validation.ParseAndValidate(ctx, req); err != nil {
		return err
	}
	rows, err := c.albumService.UpdateTrackDurations(userContext, req)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.WebResponse[*dto.RowsAffectedResponse]{Data: rows})
}

func (c *AlbumController) DeleteShortTracks(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "DeleteShortTracks")
	defer span.End()

	req := new(dto.DeleteShortTracksRequest)
	if err := ctx.QueryParser(req); err != nil {
		c.logger.WithContext(userContext).WithError(err).Warn("failed to parse request query")
		return errcode.ErrBadRequest
	}
	if err := c.validation.Validate(req); err != nil {
		return err
	}
	rows, err := c.albumService.DeleteShortTracks(userContext, req)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.WebResponse[*dto.RowsAffectedResponse]{Data: rows})
}
