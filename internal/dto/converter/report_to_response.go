package converter

import (
	"github.com/AliOraei78/MusicLibrarySystem/internal/dto"
	"github.com/AliOraei78/MusicLibrarySystem/internal/model"
)

func ReportsToResponse(reports []model.AlbumReport) []dto.AlbumReportResponse {
	responses := make([]dto.AlbumReportResponse, len(reports))
	for i, r := range reports {
		responses[i] = dto.AlbumReportResponse{
			ID:          r.ID,
			Title:       r.Title,
			Artist:      r.Artist,
			TrackCount:  r.TrackCount,
			AvgDuration: r.AvgDuration,
		}
	}
	return responses
}

func StatsToResponse(stats model.LibraryStats) dto.LibraryStatsResponse {
	return dto.LibraryStatsResponse{
		TotalTracks: stats.TotalTracks,
		TopAlbums:   ReportsToResponse(stats.TopAlbums),
	}
}
