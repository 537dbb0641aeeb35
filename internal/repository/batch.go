package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/AliOraei78/MusicLibrarySystem/internal/model"
)

// PostgreSQL accepts at most 65535 bind parameters per statement.
const maxBatchRows = 65535 / 3

// InsertManyTracks writes tracks with one multi-row INSERT per chunk and returns the
// number of rows written. The batch does not open its own transaction.
func (r *AlbumRepository) InsertManyTracks(ctx context.Context, tracks []model.Track) (int64, error) {
	if len(tracks) == 0 {
		return 0, nil
	}
	return withConnResult(ctx, r.opener, func(exec Executor) (int64, error) {
		var total int64
		for start := 0; start < len(tracks); start += maxBatchRows {
			end := min(start+maxBatchRows, len(tracks))
			query, args := buildTrackInsert(tracks[start:end])
			n, err := Execute(ctx, exec, query, args...)
			if err != nil {
				return total, err
			}
			total += n
		}
		r.log.WithContext(ctx).WithField("rows", total).Info("batch track insert finished")
		return total, nil
	})
}

func buildTrackInsert(tracks []model.Track) (string, []any) {
	var sb strings.Builder
	sb.WriteString("INSERT INTO tracks (title, duration_seconds, album_id) VALUES ")
	args := make([]any, 0, len(tracks)*3)
	for i, t := range tracks {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 3
		fmt.Fprintf(&sb, "($%d, $%d, $%d)", n+1, n+2, n+3)
		args = append(args, t.Title, t.DurationSeconds, t.AlbumID)
	}
	return sb.String(), args
}

func (r *AlbumRepository) UpdateTracksDurationAbove(ctx context.Context, minDuration, newDuration int) (int64, error) {
	const query = `UPDATE tracks SET duration_seconds = $1 WHERE duration_seconds > $2`
	n, err := withConnResult(ctx, r.opener, func(exec Executor) (int64, error) {
		return Execute(ctx, exec, query, newDuration, minDuration)
	})
	if err == nil {
		r.log.WithContext(ctx).WithField("rows", n).Info("tracks updated")
	}
	return n, err
}

func (r *AlbumRepository) DeleteTracksShorterThan(ctx context.Context, maxDuration int) (int64, error) {
	const query = `DELETE FROM tracks WHERE duration_seconds < $1`
	n, err := withConnResult(ctx, r.opener, func(exec Executor) (int64, error) {
		return Execute(ctx, exec, query, maxDuration)
	})
	if err == nil {
		r.log.WithContext(ctx).WithField("rows", n).Info("tracks deleted")
	}
	return n, err
}
