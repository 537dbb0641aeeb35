package repository

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/AliOraei78/MusicLibrarySystem/internal/cache"
	"github.com/AliOraei78/MusicLibrarySystem/internal/model"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const defaultTestTTL = 5 * time.Minute

func silentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	l.SetOutput(io.Discard)
	return l
}

var sqliteSchema = []string{
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
	// lets tests force a storage failure halfway through a multi-statement write
	`CREATE TRIGGER reject_track BEFORE INSERT ON tracks
	 WHEN NEW.title = 'REJECT'
	 BEGIN SELECT RAISE(ABORT, 'track rejected'); END`,
}

// newSQLiteDB opens a file-backed database so every pooled connection sees the same data.
func newSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "music.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range sqliteSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

type seedAlbum struct {
	title  string
	artist string
	year   int
	rating string
	tracks []model.NewTrack
}

var seedAlbums = []seedAlbum{
	{"Abbey Road", "The Beatles", 1969, "9.5", []model.NewTrack{{Title: "Come Together", DurationSeconds: 259}, {Title: "Something", DurationSeconds: 182}}},
	{"Thriller", "Michael Jackson", 1982, "9.0", []model.NewTrack{{Title: "Billie Jean", DurationSeconds: 294}, {Title: "Beat It", DurationSeconds: 258}, {Title: "Thriller", DurationSeconds: 357}}},
	{"Nevermind", "Nirvana", 1991, "8.8", nil},
}

// seed writes the three sample albums and returns their ids in order.
func seed(t *testing.T, db *sql.DB) []int64 {
	t.Helper()
	ctx := context.Background()
	ids := make([]int64, 0, len(seedAlbums))
	for _, a := range seedAlbums {
		id, err := insertAlbumWithTracks(ctx, db, model.Album{
			Title:  a.title,
			Artist: a.artist,
			Year:   a.year,
			Rating: decimal.RequireFromString(a.rating),
		}, a.tracks)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func newSQLiteRepository(t *testing.T) (*AlbumRepository, *sql.DB) {
	t.Helper()
	db := newSQLiteDB(t)
	provider := NewConnectionProvider("primary", db, silentLogger())
	return NewAlbumRepository(provider, cache.NewMemoryStore(), defaultTestTTL, silentLogger()), db
}

func newMockRepository(t *testing.T) (*AlbumRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	provider := NewConnectionProvider("primary", db, silentLogger())
	return NewAlbumRepository(provider, cache.NewMemoryStore(), defaultTestTTL, silentLogger()), mock
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

var (
	albumColumns = []string{"id", "title", "artist", "year", "rating"}
	trackColumns = []string{"id", "title", "duration_seconds", "album_id"}
)
