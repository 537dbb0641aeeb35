package service

import (
	"context"

	"github.com/AliOraei78/MusicLibrarySystem/internal/dto"
	"github.com/AliOraei78/MusicLibrarySystem/internal/dto/converter"
	"github.com/AliOraei78/MusicLibrarySystem/internal/repository"
	"github.com/AliOraei78/MusicLibrarySystem/internal/utils/errcode"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type AlbumService struct {
	albumRepository  *repository.AlbumRepository
	hybridRepository *repository.HybridRepository
	log              *logrus.Logger
	tracer           trace.Tracer
}

func NewAlbumService(albumRepository *repository.AlbumRepository, hybridRepository *repository.HybridRepository, log *logrus.Logger) *AlbumService {
	return &AlbumService{
		albumRepository:  albumRepository,
		hybridRepository: hybridRepository,
		log:              log,
		tracer:           otel.Tracer("AlbumService"),
	}
}

func (s *AlbumService) List(ctx context.Context, strategy string) ([]dto.AlbumResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.List")
	defer span.End()

	loadStrategy, err := s.parseStrategy(spanCtx, strategy)
	if err != nil {
		return nil, err
	}
	albums, err := s.hybridRepository.ListAlbums(spanCtx, loadStrategy)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).WithField("strategy", loadStrategy).Error("failed to list albums")
		return nil, translateError(err)
	}
	return converter.AlbumsToResponse(albums), nil
}

// ListCached serves the listing from the read cache; it may lag behind recent writes.
func (s *AlbumService) ListCached(ctx context.Context) ([]dto.AlbumResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.ListCached")
	defer span.End()

	albums, err := s.albumRepository.ListAllCached(spanCtx)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).Error("failed to list cached albums")
		return nil, translateError(err)
	}
	return converter.AlbumsToResponse(albums), nil
}

func (s *AlbumService) ListWithSession(ctx context.Context, session *repository.Session) ([]dto.AlbumResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.ListWithSession")
	defer span.End()

	albums, err := s.albumRepository.ListAllWithSession(spanCtx, session)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).Error("failed to list albums on request session")
		return nil, translateError(err)
	}
	return converter.AlbumsToResponse(albums), nil
}

func (s *AlbumService) ListBuffered(ctx context.Context) ([]dto.AlbumResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.ListBuffered")
	defer span.End()

	albums, err := s.albumRepository.ListAllBuffered(spanCtx)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).Error("failed to list albums buffered")
		return nil, translateError(err)
	}
	return converter.AlbumsToResponse(albums), nil
}

// ListStreaming converts rows as they arrive instead of materialising the model slice first.
func (s *AlbumService) ListStreaming(ctx context.Context) ([]dto.AlbumResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.ListStreaming")
	defer span.End()

	responses := []dto.AlbumResponse{}
	for album, err := range s.albumRepository.StreamAll(spanCtx) {
		if err != nil {
			s.log.WithContext(spanCtx).WithError(err).Error("album stream failed")
			return nil, translateError(err)
		}
		responses = append(responses, converter.AlbumToResponse(album))
	}
	return responses, nil
}

func (s *AlbumService) Get(ctx context.Context, id int64, strategy string) (*dto.AlbumResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.Get")
	defer span.End()

	loadStrategy, err := s.parseStrategy(spanCtx, strategy)
	if err != nil {
		return nil, err
	}
	result, err := s.hybridRepository.GetAlbum(spanCtx, id, loadStrategy)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).Error("failed to get album")
		return nil, translateError(err)
	}
	album, ok := result.Get()
	if !ok {
		return nil, errcode.ErrAlbumNotFound
	}
	response := converter.AlbumToResponse(album)
	return &response, nil
}

func (s *AlbumService) ListByArtist(ctx context.Context, artist string) ([]dto.AlbumResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.ListByArtist")
	defer span.End()

	albums, err := s.albumRepository.ListByArtist(spanCtx, artist)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).WithField("artist", artist).Error("failed to list albums by artist")
		return nil, translateError(err)
	}
	return converter.AlbumsToResponse(albums), nil
}

func (s *AlbumService) FirstByYear(ctx context.Context, year int) (*dto.AlbumResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.FirstByYear")
	defer span.End()

	album, err := s.albumRepository.GetFirstByYear(spanCtx, year)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).WithField("year", year).Warn("no album for year")
		return nil, translateError(err)
	}
	response := converter.AlbumToResponse(album)
	return &response, nil
}

func (s *AlbumService) FirstByTitle(ctx context.Context, title string) (*dto.AlbumResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.FirstByTitle")
	defer span.End()

	result, err := s.albumRepository.GetFirstOrDefaultByTitle(spanCtx, title)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).Error("failed to find album by title")
		return nil, translateError(err)
	}
	album, ok := result.Get()
	if !ok {
		return nil, errcode.ErrAlbumNotFound
	}
	response := converter.AlbumToResponse(album)
	return &response, nil
}

// Single requires exactly one match: none is not found, several is ambiguous.
func (s *AlbumService) Single(ctx context.Context, id int64) (*dto.AlbumResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.Single")
	defer span.End()

	album, err := s.albumRepository.GetExactlyOneByID(spanCtx, id)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).WithField("id", id).Warn("single album lookup failed")
		return nil, translateError(err)
	}
	response := converter.AlbumToResponse(album)
	return &response, nil
}

func (s *AlbumService) SingleOrDefault(ctx context.Context, id int64) (*dto.AlbumResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.SingleOrDefault")
	defer span.End()

	result, err := s.albumRepository.GetSingleOrDefaultByID(spanCtx, id)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).WithField("id", id).Warn("single album lookup failed")
		return nil, translateError(err)
	}
	album, ok := result.Get()
	if !ok {
		return nil, nil
	}
	response := converter.AlbumToResponse(album)
	return &response, nil
}

func (s *AlbumService) WithTracks(ctx context.Context, id int64, strategy string) (*dto.AlbumWithTracksResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.WithTracks")
	defer span.End()

	loadStrategy, err := s.parseStrategy(spanCtx, strategy)
	if err != nil {
		return nil, err
	}

	result, err := s.hybridRepository.AlbumWithTracks(spanCtx, id, loadStrategy)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).WithField("id", id).Error("failed to load album with tracks")
		return nil, translateError(err)
	}
	album, ok := result.Get()
	if !ok {
		return nil, errcode.ErrAlbumNotFound
	}
	response := converter.AlbumWithTracksToResponse(album)
	return &response, nil
}

func (s *AlbumService) Detail(ctx context.Context, id int64) (*dto.AlbumDetailResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.Detail")
	defer span.End()

	result, err := s.albumRepository.GetDetail(spanCtx, id)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).Error("failed to load album detail")
		return nil, translateError(err)
	}
	detail, ok := result.Get()
	if !ok {
		return nil, errcode.ErrAlbumNotFound
	}
	response := converter.AlbumDetailToResponse(detail)
	return &response, nil
}

func (s *AlbumService) AlbumsAndTracks(ctx context.Context) (*dto.AlbumsAndTracksResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.AlbumsAndTracks")
	defer span.End()

	albums, tracks, err := s.albumRepository.ListAllAndTracks(spanCtx)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).Error("failed to read albums and tracks")
		return nil, translateError(err)
	}
	return &dto.AlbumsAndTracksResponse{
		Albums: converter.AlbumsToResponse(albums),
		Tracks: converter.TracksToResponse(tracks),
	}, nil
}

// parseStrategy resolves the access path requested for a call; empty means the projection path.
func (s *AlbumService) parseStrategy(ctx context.Context, strategy string) (repository.LoadStrategy, error) {
	loadStrategy, err := repository.ParseLoadStrategy(strategy)
	if err != nil {
		s.log.WithContext(ctx).WithError(err).Warn("invalid load strategy")
		return "", translateError(err)
	}
	return loadStrategy, nil
}

func (s *AlbumService) Create(ctx context.Context, request *dto.AlbumRequest, strategy string) (*dto.CreatedResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.Create")
	defer span.End()

	loadStrategy, err := s.parseStrategy(spanCtx, strategy)
	if err != nil {
		return nil, err
	}
	id, err := s.hybridRepository.CreateAlbum(spanCtx, converter.AlbumRequestToModel(request), loadStrategy)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).WithField("strategy", loadStrategy).Error("failed to create album")
		return nil, translateError(err)
	}
	return &dto.CreatedResponse{ID: id}, nil
}

func (s *AlbumService) Update(ctx context.Context, id int64, request *dto.AlbumRequest, strategy string) error {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.Update")
	defer span.End()

	loadStrategy, err := s.parseStrategy(spanCtx, strategy)
	if err != nil {
		return err
	}
	album := converter.AlbumRequestToModel(request)
	album.ID = id
	rows, err := s.hybridRepository.UpdateAlbum(spanCtx, album, loadStrategy)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).WithField("strategy", loadStrategy).Error("failed to update album")
		return translateError(err)
	}
	if rows == 0 {
		return errcode.ErrAlbumNotFound
	}
	return nil
}

func (s *AlbumService) Delete(ctx context.Context, id int64, strategy string) error {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.Delete")
	defer span.End()

	loadStrategy, err := s.parseStrategy(spanCtx, strategy)
	if err != nil {
		return err
	}
	rows, err := s.hybridRepository.DeleteAlbum(spanCtx, id, loadStrategy)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).WithField("strategy", loadStrategy).Error("failed to delete album")
		return translateError(err)
	}
	if rows == 0 {
		return errcode.ErrAlbumNotFound
	}
	return nil
}

func (s *AlbumService) AddTrackViaProcedure(ctx context.Context, request *dto.AddTrackRequest) error {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.AddTrackViaProcedure")
	defer span.End()

	if err := s.albumRepository.AddTrackViaProcedure(spanCtx, request.Title, request.DurationSeconds, request.AlbumID); err != nil {
		s.log.WithContext(spanCtx).WithError(err).WithField("album_id", request.AlbumID).Error("stored procedure call failed")
		return translateError(err)
	}
	return nil
}

func (s *AlbumService) CreateWithTracksTransactional(ctx context.Context, request *dto.AddAlbumWithTracksRequest, strategy string) (*dto.CreatedResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.CreateWithTracksTransactional")
	defer span.End()

	loadStrategy, err := s.parseStrategy(spanCtx, strategy)
	if err != nil {
		return nil, err
	}
	album, tracks := converter.AlbumWithTracksRequestToModel(request)
	id, err := s.hybridRepository.CreateAlbumWithTracks(spanCtx, album, tracks, loadStrategy)
	if err != nil {
		return nil, translateError(err)
	}
	return &dto.CreatedResponse{ID: id}, nil
}

func (s *AlbumService) CreateWithTracksScoped(ctx context.Context, request *dto.AddAlbumWithTracksRequest) (*dto.CreatedResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.CreateWithTracksScoped")
	defer span.End()

	album, tracks := converter.AlbumWithTracksRequestToModel(request)
	id, err := s.albumRepository.InsertWithTracksDistributed(spanCtx, album, tracks)
	if err != nil {
		return nil, translateError(err)
	}
	return &dto.CreatedResponse{ID: id}, nil
}

func (s *AlbumService) InsertTracks(ctx context.Context, request *dto.BatchTracksRequest) (*dto.RowsAffectedResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.InsertTracks")
	defer span.End()

	rows, err := s.albumRepository.InsertManyTracks(spanCtx, converter.BatchRequestToTracks(request))
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).Error("batch track insert failed")
		return nil, translateError(err)
	}
	return &dto.RowsAffectedResponse{Rows: rows}, nil
}

func (s *AlbumService) UpdateTrackDurations(ctx context.Context, request *dto.UpdateDurationRequest) (*dto.RowsAffectedResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.UpdateTrackDurations")
	defer span.End()

	rows, err := s.albumRepository.UpdateTracksDurationAbove(spanCtx, request.MinDuration, request.NewDuration)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).Error("batch track update failed")
		return nil, translateError(err)
	}
	return &dto.RowsAffectedResponse{Rows: rows}, nil
}

func (s *AlbumService) DeleteShortTracks(ctx context.Context, request *dto.DeleteShortTracksRequest) (*dto.RowsAffectedResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "AlbumService.DeleteShortTracks")
	defer span.End()

	rows, err := s.albumRepository.DeleteTracksShorterThan(spanCtx, request.MaxDuration)
	if err != nil {
		s.log.WithContext(spanCtx).WithError(err).Error("batch track delete failed")
		return nil, translateError(err)
	}
	return &dto.RowsAffectedResponse{Rows: rows}, nil
}
