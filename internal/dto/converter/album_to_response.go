package converter

import (
	"github.com/AliOraei78/MusicLibrarySystem/internal/dto"
	"github.com/AliOraei78/MusicLibrarySystem/internal/model"
)

func AlbumToResponse(album model.Album) dto.AlbumResponse {
	return dto.AlbumResponse{
		ID:     album.ID,
		Title:  album.Title,
		Artist: album.Artist,
		Year:   album.Year,
		Rating: album.Rating,
	}
}

func AlbumsToResponse(albums []model.Album) []dto.AlbumResponse {
	responses := make([]dto.AlbumResponse, len(albums))
	for i, album := range albums {
		responses[i] = AlbumToResponse(album)
	}
	return responses
}

func TrackToResponse(track model.Track) dto.TrackResponse {
	return dto.TrackResponse{
		ID:              track.ID,
		Title:           track.Title,
		DurationSeconds: track.DurationSeconds,
		AlbumID:         track.AlbumID,
	}
}

func TracksToResponse(tracks []model.Track) []dto.TrackResponse {
	responses := make([]dto.TrackResponse, len(tracks))
	for i, track := range tracks {
		responses[i] = TrackToResponse(track)
	}
	return responses
}

func AlbumWithTracksToResponse(album model.AlbumWithTracks) dto.AlbumWithTracksResponse {
	return dto.AlbumWithTracksResponse{
		AlbumResponse: dto.AlbumResponse{
			ID:     album.ID,
			Title:  album.Title,
			Artist: album.Artist,
			Year:   album.Year,
			Rating: album.Rating,
		},
		Tracks: TracksToResponse(album.Tracks),
	}
}

func AlbumDetailToResponse(detail model.AlbumDetail) dto.AlbumDetailResponse {
	return dto.AlbumDetailResponse{
		AlbumWithTracksResponse: AlbumWithTracksToResponse(detail.AlbumWithTracks),
		TrackCount:              detail.TrackCount,
		AverageDuration:         detail.AverageDuration,
	}
}

func AlbumRequestToModel(request *dto.AlbumRequest) model.Album {
	return model.Album{
		Title:  request.Title,
		Artist: request.Artist,
		Year:   request.Year,
		Rating: request.Rating,
	}
}

// AlbumWithTracksRequestToModel splits the request into the album row and its pending tracks.
func AlbumWithTracksRequestToModel(request *dto.AddAlbumWithTracksRequest) (model.Album, []model.NewTrack) {
	album := model.Album{
		Title:  request.AlbumTitle,
		Artist: request.Artist,
		Year:   request.Year,
		Rating: request.Rating,
	}
	tracks := make([]model.NewTrack, len(request.Tracks))
	for i, t := range request.Tracks {
		tracks[i] = model.NewTrack{Title: t.Title, DurationSeconds: t.DurationSeconds}
	}
	return album, tracks
}

func BatchRequestToTracks(request *dto.BatchTracksRequest) []model.Track {
	tracks := make([]model.Track, len(request.Tracks))
	for i, t := range request.Tracks {
		tracks[i] = model.Track{Title: t.Title, DurationSeconds: t.DurationSeconds, AlbumID: t.AlbumID}
	}
	return tracks
}
