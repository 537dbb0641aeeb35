package repository

import (
	"context"

	"github.com/AliOraei78/MusicLibrarySystem/internal/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const topAlbumsQuery = `
	SELECT a.id AS id, a.title AS title, a.artist AS artist,
	       COUNT(t.id) AS track_count,
	       CAST(COALESCE(AVG(t.duration_seconds), 0) AS DOUBLE PRECISION) AS avg_duration
	FROM albums a
	LEFT JOIN tracks t ON t.album_id = a.id
	GROUP BY a.id, a.title, a.artist
	ORDER BY track_count DESC, a.id
	LIMIT $1`

// ReportRepository runs read-only reporting queries on the report connection.
type ReportRepository struct {
	opener Opener
	log    *logrus.Logger
}

func NewReportRepository(opener Opener, log *logrus.Logger) *ReportRepository {
	return &ReportRepository{opener: opener, log: log}
}

func (r *ReportRepository) TotalTrackCount(ctx context.Context) (int64, error) {
	return withConnResult(ctx, r.opener, func(exec Executor) (int64, error) {
		return QueryScalar[int64](ctx, exec, `SELECT COUNT(*) FROM tracks`)
	})
}

// TopAlbums ranks albums by track count, ties broken by id.
func (r *ReportRepository) TopAlbums(ctx context.Context, n int) ([]model.AlbumReport, error) {
	if n <= 0 {
		return nil, &ValidationError{Field: "n", Message: "must be positive"}
	}
	return withConnResult(ctx, r.opener, func(exec Executor) ([]model.AlbumReport, error) {
		return QueryMany(ctx, exec, albumReportShape, topAlbumsQuery, n)
	})
}

// LibraryStats runs the count and the ranking concurrently, each on its own connection.
func (r *ReportRepository) LibraryStats(ctx context.Context, top int) (model.LibraryStats, error) {
	var stats model.LibraryStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := r.TotalTrackCount(gctx)
		stats.TotalTracks = total
		return err
	})
	g.Go(func() error {
		albums, err := r.TopAlbums(gctx, top)
		stats.TopAlbums = albums
		return err
	})

	if err := g.Wait(); err != nil {
		r.log.WithContext(ctx).WithError(err).Error("failed to build library stats")
		return model.LibraryStats{}, err
	}
	return stats, nil
}
