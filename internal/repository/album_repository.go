package repository

import (
	"context"
	"iter"
	"strings"
	"time"

	"github.com/AliOraei78/MusicLibrarySystem/internal/cache"
	"github.com/AliOraei78/MusicLibrarySystem/internal/model"
	"github.com/sirupsen/logrus"
)

const (
	AllAlbumsCacheKey = "AllAlbums"
	addTrackProcedure = "add_track_and_update_album"
)

var (
	selectAlbums = "SELECT " + albumShape.columnList() + " FROM albums"
	selectTracks = "SELECT " + trackShape.columnList() + " FROM tracks"

	albumWithTracksQuery = `
		SELECT a.id AS album_id, a.title AS album_title, a.artist, a.year, a.rating,
		       t.id AS track_id, t.title AS track_title, t.duration_seconds
		FROM albums a
		LEFT JOIN tracks t ON t.album_id = a.id
		WHERE a.id = $1
		ORDER BY t.id`

	insertAlbumQuery = `INSERT INTO albums (title, artist, year, rating) VALUES ($1, $2, $3, $4) RETURNING id`
	insertTrackQuery = `INSERT INTO tracks (title, duration_seconds, album_id) VALUES ($1, $2, $3)`
)

// AlbumRepository is the hand-written SQL path over albums and tracks.
type AlbumRepository struct {
	opener   Opener
	uow      *UnitOfWork
	store    cache.Store
	cacheTTL time.Duration
	log      *logrus.Logger
}

func NewAlbumRepository(opener Opener, store cache.Store, cacheTTL time.Duration, log *logrus.Logger) *AlbumRepository {
	return &AlbumRepository{
		opener:   opener,
		uow:      NewUnitOfWork(opener, log),
		store:    store,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func (r *AlbumRepository) withConn(ctx context.Context, fn func(exec Executor) error) error {
	conn, err := r.opener.Open(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

func withConnResult[T any](ctx context.Context, opener Opener, fn func(exec Executor) (T, error)) (T, error) {
	conn, err := opener.Open(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	defer conn.Close()
	return fn(conn)
}

func (r *AlbumRepository) ListAll(ctx context.Context) ([]model.Album, error) {
	return withConnResult(ctx, r.opener, func(exec Executor) ([]model.Album, error) {
		return QueryMany(ctx, exec, albumShape, selectAlbums)
	})
}

func (r *AlbumRepository) GetByID(ctx context.Context, id int64) (Result[model.Album], error) {
	return withConnResult(ctx, r.opener, func(exec Executor) (Result[model.Album], error) {
		return QueryFirst(ctx, exec, albumShape, selectAlbums+" WHERE id = $1", id)
	})
}

// ListByArtist matches artist names containing pattern, ignoring case.
// LIKE wildcards in pattern are matched literally.
func (r *AlbumRepository) ListByArtist(ctx context.Context, pattern string) ([]model.Album, error) {
	query := selectAlbums + ` WHERE LOWER(artist) LIKE LOWER($1) ESCAPE '\' ORDER BY id`
	return withConnResult(ctx, r.opener, func(exec Executor) ([]model.Album, error) {
		return QueryMany(ctx, exec, albumShape, query, "%"+escapeLike(pattern)+"%")
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// GetFirstByYear returns the first album of a year by title, or ErrNotFound.
func (r *AlbumRepository) GetFirstByYear(ctx context.Context, year int) (model.Album, error) {
	res, err := withConnResult(ctx, r.opener, func(exec Executor) (Result[model.Album], error) {
		return QueryFirst(ctx, exec, albumShape, selectAlbums+" WHERE year = $1 ORDER BY title LIMIT 1", year)
	})
	if err != nil {
		return model.Album{}, err
	}
	return res.OrErr()
}

func (r *AlbumRepository) GetFirstOrDefaultByTitle(ctx context.Context, title string) (Result[model.Album], error) {
	return withConnResult(ctx, r.opener, func(exec Executor) (Result[model.Album], error) {
		return QueryFirst(ctx, exec, albumShape, selectAlbums+" WHERE title = $1 ORDER BY id LIMIT 1", title)
	})
}

// GetExactlyOneByID fails with ErrNotFound on no match and ErrMultipleRows on more than one.
func (r *AlbumRepository) GetExactlyOneByID(ctx context.Context, id int64) (model.Album, error) {
	res, err := r.GetSingleOrDefaultByID(ctx, id)
	if err != nil {
		return model.Album{}, err
	}
	return res.OrErr()
}

// GetSingleOrDefaultByID is GetExactlyOneByID without the error for a missing row.
func (r *AlbumRepository) GetSingleOrDefaultByID(ctx context.Context, id int64) (Result[model.Album], error) {
	albums, err := withConnResult(ctx, r.opener, func(exec Executor) ([]model.Album, error) {
		return QueryMany(ctx, exec, albumShape, selectAlbums+" WHERE id = $1 LIMIT 2", id)
	})
	if err != nil {
		return NotFound[model.Album](), err
	}
	switch len(albums) {
	case 0:
		return NotFound[model.Album](), nil
	case 1:
		return Found(albums[0]), nil
	default:
		return NotFound[model.Album](), ErrMultipleRows
	}
}

// GetWithTracks loads one album and its tracks in a single joined read.
func (r *AlbumRepository) GetWithTracks(ctx context.Context, id int64) (Result[model.AlbumWithTracks], error) {
	rows, err := withConnResult(ctx, r.opener, func(exec Executor) ([]albumTrackRow, error) {
		return QueryMany(ctx, exec, albumTrackShape, albumWithTracksQuery, id)
	})
	if err != nil {
		return NotFound[model.AlbumWithTracks](), err
	}
	albums := aggregateAlbums(rows)
	if len(albums) == 0 {
		return NotFound[model.AlbumWithTracks](), nil
	}
	return Found(albums[0]), nil
}

func (r *AlbumRepository) GetDetail(ctx context.Context, id int64) (Result[model.AlbumDetail], error) {
	res, err := r.GetWithTracks(ctx, id)
	if err != nil {
		return NotFound[model.AlbumDetail](), err
	}
	album, ok := res.Get()
	if !ok {
		return NotFound[model.AlbumDetail](), nil
	}

	detail := model.AlbumDetail{AlbumWithTracks: album, TrackCount: len(album.Tracks)}
	if detail.TrackCount > 0 {
		total := 0
		for _, t := range album.Tracks {
			total += t.DurationSeconds
		}
		detail.AverageDuration = float64(total) / float64(detail.TrackCount)
	}
	return Found(detail), nil
}

// ListAllAndTracks reads every album and every track in one round trip.
func (r *AlbumRepository) ListAllAndTracks(ctx context.Context) ([]model.Album, []model.Track, error) {
	var (
		albums []model.Album
		tracks []model.Track
	)
	err := r.withConn(ctx, func(exec Executor) error {
		var err error
		albums, tracks, err = QueryMultiple(ctx, exec, albumShape, selectAlbums+" ORDER BY id", trackShape, selectTracks+" ORDER BY id")
		return err
	})
	return albums, tracks, err
}

func (r *AlbumRepository) ListAllBuffered(ctx context.Context) ([]model.Album, error) {
	return withConnResult(ctx, r.opener, func(exec Executor) ([]model.Album, error) {
		return QueryMany(ctx, exec, albumShape, selectAlbums+" ORDER BY id")
	})
}

// StreamAll yields albums as they are read. The connection stays open until the
// loop over the sequence ends.
func (r *AlbumRepository) StreamAll(ctx context.Context) iter.Seq2[model.Album, error] {
	return QueryStream(ctx, r.opener, albumShape, selectAlbums+" ORDER BY id")
}

func (r *AlbumRepository) ListAllStreaming(ctx context.Context) ([]model.Album, error) {
	albums, err := Collect(r.StreamAll(ctx))
	if err != nil {
		return nil, err
	}
	if albums == nil {
		albums = []model.Album{}
	}
	return albums, nil
}

func (r *AlbumRepository) Insert(ctx context.Context, album model.Album) (int64, error) {
	return withConnResult(ctx, r.opener, func(exec Executor) (int64, error) {
		return insertAlbum(ctx, exec, album)
	})
}

func (r *AlbumRepository) Update(ctx context.Context, album model.Album) (int64, error) {
	const query = `UPDATE albums SET title = $1, artist = $2, year = $3, rating = $4 WHERE id = $5`
	return withConnResult(ctx, r.opener, func(exec Executor) (int64, error) {
		return Execute(ctx, exec, query, album.Title, album.Artist, album.Year, album.Rating, album.ID)
	})
}

// Delete removes an album. Its tracks go with it through the foreign key cascade.
func (r *AlbumRepository) Delete(ctx context.Context, id int64) (int64, error) {
	return withConnResult(ctx, r.opener, func(exec Executor) (int64, error) {
		return Execute(ctx, exec, `DELETE FROM albums WHERE id = $1`, id)
	})
}

func (r *AlbumRepository) AddTrackViaProcedure(ctx context.Context, title string, durationSeconds int, albumID int64) error {
	return r.withConn(ctx, func(exec Executor) error {
		return CallProcedure(ctx, exec, addTrackProcedure, title, durationSeconds, albumID)
	})
}

// InsertWithTracksTransactional writes an album and its tracks in one local transaction.
func (r *AlbumRepository) InsertWithTracksTransactional(ctx context.Context, album model.Album, tracks []model.NewTrack) (int64, error) {
	if err := validateNewTracks(tracks); err != nil {
		return 0, err
	}

	var albumID int64
	err := r.uow.Do(ctx, func(ctx context.Context, exec Executor) error {
		var err error
		albumID, err = insertAlbumWithTracks(ctx, exec, album, tracks)
		return err
	})
	if err != nil {
		r.log.WithContext(ctx).WithError(err).Warn("album insert rolled back")
		return 0, err
	}
	return albumID, nil
}

// InsertWithTracksDistributed writes the same rows inside an ambient transaction scope.
func (r *AlbumRepository) InsertWithTracksDistributed(ctx context.Context, album model.Album, tracks []model.NewTrack) (int64, error) {
	if err := validateNewTracks(tracks); err != nil {
		return 0, err
	}

	var albumID int64
	err := InScope(ctx, r.log, func(ctx context.Context) error {
		return r.withConn(ctx, func(exec Executor) error {
			var err error
			albumID, err = insertAlbumWithTracks(ctx, exec, album, tracks)
			return err
		})
	})
	if err != nil {
		r.log.WithContext(ctx).WithError(err).Warn("album insert rolled back")
		return 0, err
	}
	return albumID, nil
}

func validateNewTracks(tracks []model.NewTrack) error {
	if len(tracks) == 0 {
		return &ValidationError{Field: "tracks", Message: "at least one track is required"}
	}
	for _, t := range tracks {
		if strings.TrimSpace(t.Title) == "" {
			return &ValidationError{Field: "tracks.title", Message: "must not be empty"}
		}
		if t.DurationSeconds <= 0 {
			return &ValidationError{Field: "tracks.duration_seconds", Message: "must be positive"}
		}
	}
	return nil
}

func insertAlbum(ctx context.Context, exec Executor, album model.Album) (int64, error) {
	return ExecuteScalar[int64](ctx, exec, insertAlbumQuery, album.Title, album.Artist, album.Year, album.Rating)
}

func insertAlbumWithTracks(ctx context.Context, exec Executor, album model.Album, tracks []model.NewTrack) (int64, error) {
	albumID, err := insertAlbum(ctx, exec, album)
	if err != nil {
		return 0, err
	}
	for _, t := range tracks {
		if _, err := Execute(ctx, exec, insertTrackQuery, t.Title, t.DurationSeconds, albumID); err != nil {
			return 0, err
		}
	}
	return albumID, nil
}

// ListAllCached serves the album listing from the read cache. Writes do not invalidate
// the entry, so it can be stale until it expires.
func (r *AlbumRepository) ListAllCached(ctx context.Context) ([]model.Album, error) {
	return cache.GetOrLoad(ctx, r.store, r.log, AllAlbumsCacheKey, r.cacheTTL, func(ctx context.Context) ([]model.Album, error) {
		return r.ListAll(ctx)
	})
}

// ListAllWithSession runs on the request session and never opens a connection of its own.
func (r *AlbumRepository) ListAllWithSession(ctx context.Context, session *Session) ([]model.Album, error) {
	exec, err := session.Executor()
	if err != nil {
		return nil, err
	}
	return QueryMany(ctx, exec, albumShape, selectAlbums+" ORDER BY id")
}
