package service

import (
	"context"

	"github.com/AliOraei78/MusicLibrarySystem/internal/dto"
	"github.com/AliOraei78/MusicLibrarySystem/internal/dto/converter"
	"github.com/AliOraei78/MusicLibrarySystem/internal/repository"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type ReportService struct {
	reportRepository *repository.ReportRepository
	hybridRepository *repository.HybridRepository
	log              *logrus.Logger
	tracer           trace.Tracer
}

func NewReportService(reportRepository *repository.ReportRepository, hybridRepository *repository.HybridRepository, log *logrus.Logger) *ReportService {
	return &ReportService{reportRepository, hybridRepository, log, otel.Tracer("ReportService")}
}

func (s *ReportService) TotalTracks(ctx context.Context) (*dto.TotalTracksResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "ReportService.TotalTracks")
	defer span.End()

	total, err := s.reportRepository.TotalTrackCount(spanCtx)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).Error("failed to count tracks")
		return nil, translateError(err)
	}
	return &dto.TotalTracksResponse{Total: total}, nil
}

func (s *ReportService) TopAlbums(ctx context.Context, request *dto.TopAlbumsRequest) ([]dto.AlbumReportResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "ReportService.TopAlbums")
	defer span.End()

	reports, err := s.hybridRepository.TopAlbums(spanCtx, request.Limit)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).Error("failed to rank albums")
		return nil, translateError(err)
	}
	return converter.ReportsToResponse(reports), nil
}

func (s *ReportService) Stats(ctx context.Context, request *dto.TopAlbumsRequest) (*dto.LibraryStatsResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "ReportService.Stats")
	defer span.End()

	stats, err := s.reportRepository.LibraryStats(spanCtx, request.Limit)
	if err != nil {
		return nil, translateError(err)
	}
	response := converter.StatsToResponse(stats)
	return &response, nil
}
