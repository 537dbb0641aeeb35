package seeder

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AliOraei78/MusicLibrarySystem/db/schema"
	"github.com/AliOraei78/MusicLibrarySystem/internal/model"
	"github.com/AliOraei78/MusicLibrarySystem/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type seedAlbum struct {
	album  model.Album
	tracks []model.NewTrack
}

var albums = []seedAlbum{
	{
		album: model.Album{Title: "Abbey Road", Artist: "The Beatles", Year: 1969, Rating: decimal.RequireFromString("9.5")},
		tracks: []model.NewTrack{
			{Title: "Come Together", DurationSeconds: 259},
			{Title: "Something", DurationSeconds: 182},
		},
	},
	{
		album: model.Album{Title: "Thriller", Artist: "Michael Jackson", Year: 1982, Rating: decimal.RequireFromString("9.0")},
		tracks: []model.NewTrack{
			{Title: "Billie Jean", DurationSeconds: 294},
			{Title: "Beat It", DurationSeconds: 258},
			{Title: "Thriller", DurationSeconds: 357},
		},
	},
	// Nevermind is seeded without tracks so empty aggregates have something to show.
	{
		album: model.Album{Title: "Nevermind", Artist: "Nirvana", Year: 1991, Rating: decimal.RequireFromString("8.8")},
	},
}

// Seed creates the schema if needed, clears both tables and writes the sample library.
func Seed(ctx context.Context, db *sql.DB, repo *repository.AlbumRepository, log *logrus.Logger) error {
	if err := schema.Apply(ctx, db); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	// Cleanup existing records in dependency order
	for _, table := range []string{"tracks", "albums"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}

	for _, a := range albums {
		var (
			id  int64
			err error
		)
		if len(a.tracks) == 0 {
			id, err = repo.Insert(ctx, a.album)
		} else {
			id, err = repo.InsertWithTracksTransactional(ctx, a.album, a.tracks)
		}
		if err != nil {
			return fmt.Errorf("seed album %q: %w", a.album.Title, err)
		}
		log.WithContext(ctx).WithFields(logrus.Fields{"id": id, "title": a.album.Title, "tracks": len(a.tracks)}).Info("album seeded")
	}
	return nil
}
