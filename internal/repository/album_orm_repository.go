package repository

import (
	"context"
	"errors"

	"github.com/AliOraei78/MusicLibrarySystem/internal/model"
	"gorm.io/gorm"
)

// AlbumORMRepository is the relational path: entities and their tracks are loaded
// and saved through gorm.
type AlbumORMRepository struct {
	Repository[model.Album]
}

func NewAlbumORMRepository(db *gorm.DB) *AlbumORMRepository {
	return &AlbumORMRepository{
		Repository: Repository[model.Album]{db},
	}
}

// FindWithTracks loads an album with its tracks ordered by id.
func (r *AlbumORMRepository) FindWithTracks(ctx context.Context, id int64) (Result[model.AlbumWithTracks], error) {
	var album model.Album
	err := r.getDb(ctx).
		Preload("Tracks", func(db *gorm.DB) *gorm.DB { return db.Order("tracks.id") }).
		Where("id = ?", id).
		Take(&album).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound[model.AlbumWithTracks](), nil
	}
	if err != nil {
		return NotFound[model.AlbumWithTracks](), err
	}

	tracks := album.Tracks
	if tracks == nil {
		tracks = []model.Track{}
	}
	return Found(model.AlbumWithTracks{
		ID:     album.ID,
		Title:  album.Title,
		Artist: album.Artist,
		Year:   album.Year,
		Rating: album.Rating,
		Tracks: tracks,
	}), nil
}

// CreateWithTracks saves an album and its tracks in one gorm transaction.
func (r *AlbumORMRepository) CreateWithTracks(ctx context.Context, album *model.Album) error {
	if len(album.Tracks) == 0 {
		return &ValidationError{Field: "tracks", Message: "at least one track is required"}
	}
	return r.Transaction(ctx, func(ctx context.Context) error {
		return r.Create(ctx, album)
	})
}
