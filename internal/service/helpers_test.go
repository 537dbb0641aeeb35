package service

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/AliOraei78/MusicLibrarySystem/internal/cache"
	"github.com/AliOraei78/MusicLibrarySystem/internal/model"
	"github.com/AliOraei78/MusicLibrarySystem/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func silentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var testSchema = []string{
	`CREATE TABLE albums (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title VARCHAR(200) NOT NULL,
		artist TEXT NOT NULL,
		year INTEGER NOT NULL,
		rating NUMERIC NOT NULL
	)`,
	`CREATE TABLE tracks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title VARCHAR(200) NOT NULL,
		duration_seconds INTEGER NOT NULL CHECK (duration_seconds > 0),
		album_id INTEGER NOT NULL REFERENCES albums(id) ON DELETE CASCADE
	)`,
}

type fixture struct {
	db       *sql.DB
	mock     sqlmock.Sqlmock
	albums   *repository.AlbumRepository
	reports  *repository.ReportRepository
	albumSvc *AlbumService
	ids      []int64
}

// newFixture seeds three albums into a file-backed SQLite database. The ORM path runs on sqlmock.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "music.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	for _, stmt := range testSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	log := silentLogger()
	provider := repository.NewConnectionProvider("primary", db, log)
	albums := repository.NewAlbumRepository(provider, cache.NewMemoryStore(), time.Minute, log)
	reports := repository.NewReportRepository(provider, log)
	hybrid := repository.NewHybridRepository(albums, repository.NewAlbumORMRepository(gormDB), reports)

	f := &fixture{
		db:       db,
		mock:     mock,
		albums:   albums,
		reports:  reports,
		albumSvc: NewAlbumService(albums, hybrid, log),
	}

	ctx := context.Background()
	for _, a := range []struct {
		album  model.Album
		tracks []model.NewTrack
	}{
		{model.Album{Title: "Abbey Road", Artist: "The Beatles", Year: 1969, Rating: decimal.RequireFromString("9.5")},
			[]model.NewTrack{{Title: "Come Together", DurationSeconds: 259}, {Title: "Something", DurationSeconds: 182}}},
		{model.Album{Title: "Thriller", Artist: "Michael Jackson", Year: 1982, Rating: decimal.RequireFromString("9.0")},
			[]model.NewTrack{{Title: "Billie Jean", DurationSeconds: 294}, {Title: "Beat It", DurationSeconds: 258}, {Title: "Thriller", DurationSeconds: 357}}},
	} {
		id, err := albums.InsertWithTracksTransactional(ctx, a.album, a.tracks)
		require.NoError(t, err)
		f.ids = append(f.ids, id)
	}
	id, err := albums.Insert(ctx, model.Album{Title: "Nevermind", Artist: "Nirvana", Year: 1991, Rating: decimal.RequireFromString("8.8")})
	require.NoError(t, err)
	f.ids = append(f.ids, id)
	return f
}
