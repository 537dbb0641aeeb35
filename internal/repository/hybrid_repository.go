package repository

import (
	"context"
	"fmt"

	"github.com/AliOraei78/MusicLibrarySystem/internal/model"
)

// LoadStrategy picks which access path serves a call, for reads and writes alike.
type LoadStrategy string

const (
	// LoadProjection reads through one hand-written joined statement.
	LoadProjection LoadStrategy = "projection"
	// LoadRelational reads through the ORM with eager-loaded tracks.
	LoadRelational LoadStrategy = "relational"
)

type tracksLoader interface {
	GetWithTracks(ctx context.Context, id int64) (Result[model.AlbumWithTracks], error)
}

type relationalLoader interface {
	FindWithTracks(ctx context.Context, id int64) (Result[model.AlbumWithTracks], error)
}

type projectionAlbums interface {
	ListAll(ctx context.Context) ([]model.Album, error)
	GetByID(ctx context.Context, id int64) (Result[model.Album], error)
	Insert(ctx context.Context, album model.Album) (int64, error)
	Update(ctx context.Context, album model.Album) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	InsertWithTracksTransactional(ctx context.Context, album model.Album, tracks []model.NewTrack) (int64, error)
}

type relationalAlbums interface {
	FindAll(ctx context.Context) ([]model.Album, error)
	FindByID(ctx context.Context, id any) (Result[model.Album], error)
	Create(ctx context.Context, album *model.Album) error
	Update(ctx context.Context, album *model.Album) (int64, error)
	Delete(ctx context.Context, id any) (int64, error)
	CreateWithTracks(ctx context.Context, album *model.Album) error
}

type topAlbumsReader interface {
	TopAlbums(ctx context.Context, n int) ([]model.AlbumReport, error)
}

// HybridRepository serves the same aggregate from either access path, selected per call.
type HybridRepository struct {
	projection       tracksLoader
	relational       relationalLoader
	projectionAlbums projectionAlbums
	relationalAlbums relationalAlbums
	reports          topAlbumsReader
}

func NewHybridRepository(projection *AlbumRepository, relational *AlbumORMRepository, reports *ReportRepository) *HybridRepository {
	return &HybridRepository{
		projection:       projection,
		relational:       relational,
		projectionAlbums: projection,
		relationalAlbums: relational,
		reports:          reports,
	}
}

func unknownStrategy(strategy LoadStrategy) error {
	return &ValidationError{Field: "strategy", Message: fmt.Sprintf("unknown load strategy %q", strategy)}
}

func (h *HybridRepository) AlbumWithTracks(ctx context.Context, id int64, strategy LoadStrategy) (Result[model.AlbumWithTracks], error) {
	switch strategy {
	case LoadProjection:
		return h.projection.GetWithTracks(ctx, id)
	case LoadRelational:
		return h.relational.FindWithTracks(ctx, id)
	default:
		return NotFound[model.AlbumWithTracks](), unknownStrategy(strategy)
	}
}

// ListAlbums returns every album without tracks, ordered by id.
func (h *HybridRepository) ListAlbums(ctx context.Context, strategy LoadStrategy) ([]model.Album, error) {
	switch strategy {
	case LoadProjection:
		return h.projectionAlbums.ListAll(ctx)
	case LoadRelational:
		return h.relationalAlbums.FindAll(ctx)
	default:
		return nil, unknownStrategy(strategy)
	}
}

func (h *HybridRepository) GetAlbum(ctx context.Context, id int64, strategy LoadStrategy) (Result[model.Album], error) {
	switch strategy {
	case LoadProjection:
		return h.projectionAlbums.GetByID(ctx, id)
	case LoadRelational:
		return h.relationalAlbums.FindByID(ctx, id)
	default:
		return NotFound[model.Album](), unknownStrategy(strategy)
	}
}

// CreateAlbum inserts a bare album and returns its generated id.
func (h *HybridRepository) CreateAlbum(ctx context.Context, album model.Album, strategy LoadStrategy) (int64, error) {
	switch strategy {
	case LoadProjection:
		return h.projectionAlbums.Insert(ctx, album)
	case LoadRelational:
		album.Tracks = nil
		if err := h.relationalAlbums.Create(ctx, &album); err != nil {
			return 0, err
		}
		return album.ID, nil
	default:
		return 0, unknownStrategy(strategy)
	}
}

// UpdateAlbum rewrites the album columns by id. Zero rows means no such album.
func (h *HybridRepository) UpdateAlbum(ctx context.Context, album model.Album, strategy LoadStrategy) (int64, error) {
	switch strategy {
	case LoadProjection:
		return h.projectionAlbums.Update(ctx, album)
	case LoadRelational:
		album.Tracks = nil
		return h.relationalAlbums.Update(ctx, &album)
	default:
		return 0, unknownStrategy(strategy)
	}
}

// DeleteAlbum removes an album; its tracks follow through the foreign key cascade.
func (h *HybridRepository) DeleteAlbum(ctx context.Context, id int64, strategy LoadStrategy) (int64, error) {
	switch strategy {
	case LoadProjection:
		return h.projectionAlbums.Delete(ctx, id)
	case LoadRelational:
		return h.relationalAlbums.Delete(ctx, id)
	default:
		return 0, unknownStrategy(strategy)
	}
}

// CreateAlbumWithTracks writes the album and its tracks atomically on either path.
func (h *HybridRepository) CreateAlbumWithTracks(ctx context.Context, album model.Album, tracks []model.NewTrack, strategy LoadStrategy) (int64, error) {
	switch strategy {
	case LoadProjection:
		return h.projectionAlbums.InsertWithTracksTransactional(ctx, album, tracks)
	case LoadRelational:
		if err := validateNewTracks(tracks); err != nil {
			return 0, err
		}
		album.Tracks = make([]model.Track, 0, len(tracks))
		for _, t := range tracks {
			album.Tracks = append(album.Tracks, model.Track{Title: t.Title, DurationSeconds: t.DurationSeconds})
		}
		if err := h.relationalAlbums.CreateWithTracks(ctx, &album); err != nil {
			return 0, err
		}
		return album.ID, nil
	default:
		return 0, unknownStrategy(strategy)
	}
}

func (h *HybridRepository) TopAlbums(ctx context.Context, n int) ([]model.AlbumReport, error) {
	return h.reports.TopAlbums(ctx, n)
}

func ParseLoadStrategy(s string) (LoadStrategy, error) {
	switch LoadStrategy(s) {
	case LoadProjection, LoadRelational:
		return LoadStrategy(s), nil
	case "":
		return LoadProjection, nil
	default:
		return "", unknownStrategy(LoadStrategy(s))
	}
}
