package controller

import (
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/validation"
	"github.com/AliOraei78/MusicLibrarySystem/internal/dto"
	"github.com/AliOraei78/MusicLibrarySystem/internal/service"
	"github.com/AliOraei78/MusicLibrarySystem/internal/utils/errcode"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type ReportController struct {
	reportService *service.ReportService
	validation    *validation.Validation
	logger        *logrus.Logger
	tracer        trace.Tracer
}

func NewReportController(reportService *service.ReportService, validation *validation.Validation, logger *logrus.Logger) *ReportController {
	return &ReportController{reportService, validation, logger, otel.Tracer("ReportController")}
}

func (c *ReportController) TotalTracks(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "TotalTracks")
	defer span.End()

	total, err := c.reportService.TotalTracks(userContext)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.WebResponse[*dto.TotalTracksResponse]{Data: total})
}

func (c *ReportController) topRequest(ctx *fiber.Ctx) (*dto.TopAlbumsRequest, error) {
	req := new(dto.TopAlbumsRequest)
	if err := ctx.QueryParser(req); err != nil {
		c.logger.WithContext(ctx.UserContext()).WithError(err).Warn("failed to parse request query")
		return nil, errcode.ErrBadRequest
	}
	req.SetDefault()
	if err := c.validation.Validate(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (c *ReportController) TopAlbums(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "TopAlbums")
	defer span.End()

	req, err := c.topRequest(ctx)
	if err != nil {
		return err
	}
	albums, err := c.reportService.TopAlbums(userContext, req)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.NewListResponse(albums, dto.SourceReport))
}

func (c *ReportController) Stats(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "Stats")
	defer span.End()

	req, err := c.topRequest(ctx)
	if err != nil {
		return err
	}
	stats, err := c.reportService.Stats(userContext, req)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.WebResponse[*dto.LibraryStatsResponse]{Data: stats})
}
