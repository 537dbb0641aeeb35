package controller

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AliOraei78/MusicLibrarySystem/internal/cache"
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/env"
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/validation"
	"github.com/AliOraei78/MusicLibrarySystem/internal/config/web"
	"github.com/AliOraei78/MusicLibrarySystem/internal/dto"
	"github.com/AliOraei78/MusicLibrarySystem/internal/middleware"
	"github.com/AliOraei78/MusicLibrarySystem/internal/model"
	"github.com/AliOraei78/MusicLibrarySystem/internal/repository"
	"github.com/AliOraei78/MusicLibrarySystem/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

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

// setupControllers wires real services over a seeded SQLite file behind the project's Fiber error handler.
func setupControllers(t *testing.T) (*fiber.App, *sql.DB) {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "music.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	for _, stmt := range testSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	provider := repository.NewConnectionProvider("primary", db, logger)
	albums := repository.NewAlbumRepository(provider, cache.NewMemoryStore(), time.Minute, logger)
	reports := repository.NewReportRepository(provider, logger)
	hybrid := repository.NewHybridRepository(albums, nil, reports)
	validator := validation.NewValidation()

	ctx := context.Background()
	_, err = albums.InsertWithTracksTransactional(ctx,
		model.Album{Title: "Abbey Road", Artist: "The Beatles", Year: 1969, Rating: decimal.RequireFromString("9.5")},
		[]model.NewTrack{{Title: "Come Together", DurationSeconds: 259}, {Title: "Something", DurationSeconds: 182}})
	require.NoError(t, err)
	_, err = albums.InsertWithTracksTransactional(ctx,
		model.Album{Title: "Thriller", Artist: "Michael Jackson", Year: 1982, Rating: decimal.RequireFromString("9.0")},
		[]model.NewTrack{{Title: "Billie Jean", DurationSeconds: 294}, {Title: "Beat It", DurationSeconds: 258}, {Title: "Thriller", DurationSeconds: 357}})
	require.NoError(t, err)
	_, err = albums.Insert(ctx, model.Album{Title: "Nevermind", Artist: "Nirvana", Year: 1991, Rating: decimal.RequireFromString("8.8")})
	require.NoError(t, err)

	cfg := &env.Config{}
	cfg.App.Name = "TestApp"
	app := web.NewFiber(logger, cfg)

	albumCtrl := NewAlbumController(service.NewAlbumService(albums, hybrid, logger), validator, logger)
	reportCtrl := NewReportController(service.NewReportService(reports, hybrid, logger), validator, logger)

	api := app.Group("/api/albums")
	api.Get("/", albumCtrl.List)
	api.Get("/cached", albumCtrl.ListCached)
	api.Get("/session", middleware.SessionMiddleware(provider, logger), albumCtrl.ListWithSession)
	api.Get("/no-session", albumCtrl.ListWithSession)
	api.Get("/unbuffered", albumCtrl.Unbuffered)
	api.Get("/by-artist/:artist", albumCtrl.ByArtist)
	api.Get("/first-by-year/:year", albumCtrl.FirstByYear)
	api.Get("/single/:id", albumCtrl.Single)
	api.Get("/single-or-default/:id", albumCtrl.SingleOrDefault)
	api.Get("/with-tracks/:albumId", albumCtrl.WithTracks)
	api.Get("/:id/detail", albumCtrl.Detail)
	api.Get("/:id", albumCtrl.Get)
	api.Post("/", albumCtrl.Create)
	api.Put("/:id", albumCtrl.Update)
	api.Delete("/:id", albumCtrl.Delete)
	api.Post("/transactional", albumCtrl.CreateTransactional)
	api.Post("/transaction-scope", albumCtrl.CreateTransactionScope)
	api.Post("/tracks/batch", albumCtrl.InsertTracks)
	api.Delete("/tracks/batch", albumCtrl.DeleteShortTracks)

	rep := app.Group("/api/reports")
	rep.Get("/total-tracks", reportCtrl.TotalTracks)
	rep.Get("/top-albums", reportCtrl.TopAlbums)
	rep.Get("/stats", reportCtrl.Stats)

	return app, db
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out dto.WebResponse[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Data
}

func TestAlbumController_ListMeta(t *testing.T) {
	app, _ := setupControllers(t)

	cases := []struct {
		name   string
		path   string
		count  int
		source string
	}{
		{name: "List", path: "/api/albums", count: 3, source: dto.SourceProjection},
		{name: "ListProjectionExplicit", path: "/api/albums?strategy=projection", count: 3, source: dto.SourceProjection},
		{name: "Cached", path: "/api/albums/cached", count: 3, source: dto.SourceCache},
		{name: "Session", path: "/api/albums/session", count: 3, source: dto.SourceSession},
		{name: "Unbuffered", path: "/api/albums/unbuffered", count: 3, source: dto.SourceStreaming},
		{name: "ByArtist", path: "/api/albums/by-artist/nirvana", count: 1, source: dto.SourceProjection},
		{name: "TopAlbums", path: "/api/reports/top-albums?limit=2", count: 2, source: dto.SourceReport},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodGet, c.path, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var out dto.WebResponse[[]json.RawMessage]
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			require.NotNil(t, out.Meta)
			require.Equal(t, c.count, out.Meta.Count)
			require.Len(t, out.Data, c.count)
			require.Equal(t, c.source, out.Meta.Source)
		})
	}

	t.Run("SingleAlbumHasNoMeta", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/albums/2", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out dto.WebResponse[json.RawMessage]
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		require.Nil(t, out.Meta)
	})
}

func TestAlbumController_Reads(t *testing.T) {
	app, _ := setupControllers(t)

	type testcase struct {
		name         string
		path         string
		expectStatus int
		assert       func(*testing.T, *http.Response)
	}

	cases := []testcase{
		{
			name:         "List",
			path:         "/api/albums",
			expectStatus: http.StatusOK,
			assert: func(t *testing.T, resp *http.Response) {
				require.Len(t, decode[[]dto.AlbumResponse](t, resp), 3)
			},
		},
		{
			name:         "Cached",
			path:         "/api/albums/cached",
			expectStatus: http.StatusOK,
			assert: func(t *testing.T, resp *http.Response) {
				require.Len(t, decode[[]dto.AlbumResponse](t, resp), 3)
			},
		},
		{
			name:         "Session",
			path:         "/api/albums/session",
			expectStatus: http.StatusOK,
			assert: func(t *testing.T, resp *http.Response) {
				require.Len(t, decode[[]dto.AlbumResponse](t, resp), 3)
			},
		},
		{
			name:         "SessionMissing",
			path:         "/api/albums/no-session",
			expectStatus: http.StatusInternalServerError,
		},
		{
			name:         "Unbuffered",
			path:         "/api/albums/unbuffered",
			expectStatus: http.StatusOK,
			assert: func(t *testing.T, resp *http.Response) {
				albums := decode[[]dto.AlbumResponse](t, resp)
				require.Equal(t, "Abbey Road", albums[0].Title)
			},
		},
		{
			name:         "GetById",
			path:         "/api/albums/2",
			expectStatus: http.StatusOK,
			assert: func(t *testing.T, resp *http.Response) {
				require.Equal(t, "Thriller", decode[dto.AlbumResponse](t, resp).Title)
			},
		},
		{name: "GetById_NotFound", path: "/api/albums/999", expectStatus: http.StatusNotFound},
		{name: "GetById_BadParam", path: "/api/albums/abc", expectStatus: http.StatusBadRequest},
		{
			name:         "ByArtist",
			path:         "/api/albums/by-artist/nirvana",
			expectStatus: http.StatusOK,
			assert: func(t *testing.T, resp *http.Response) {
				require.Len(t, decode[[]dto.AlbumResponse](t, resp), 1)
			},
		},
		{name: "FirstByYear_NotFound", path: "/api/albums/first-by-year/2001", expectStatus: http.StatusNotFound},
		{name: "Single", path: "/api/albums/single/1", expectStatus: http.StatusOK},
		{name: "Single_NotFound", path: "/api/albums/single/999", expectStatus: http.StatusNotFound},
		{
			name:         "SingleOrDefault_Null",
			path:         "/api/albums/single-or-default/999",
			expectStatus: http.StatusOK,
			assert: func(t *testing.T, resp *http.Response) {
				require.Nil(t, decode[*dto.AlbumResponse](t, resp))
			},
		},
		{
			name:         "WithTracks",
			path:         "/api/albums/with-tracks/2",
			expectStatus: http.StatusOK,
			assert: func(t *testing.T, resp *http.Response) {
				require.Len(t, decode[dto.AlbumWithTracksResponse](t, resp).Tracks, 3)
			},
		},
		{name: "WithTracks_UnknownStrategy", path: "/api/albums/with-tracks/2?strategy=lazy", expectStatus: http.StatusBadRequest},
		{
			name:         "Detail",
			path:         "/api/albums/1/detail",
			expectStatus: http.StatusOK,
			assert: func(t *testing.T, resp *http.Response) {
				require.Equal(t, 2, decode[dto.AlbumDetailResponse](t, resp).TrackCount)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodGet, tc.path, "")
			require.Equal(t, tc.expectStatus, resp.StatusCode)
			if tc.assert != nil {
				tc.assert(t, resp)
			}
		})
	}
}

func TestAlbumController_Writes(t *testing.T) {
	type testcase struct {
		name         string
		method       string
		path         string
		body         string
		expectStatus int
		albums       int
	}

	cases := []testcase{
		{
			name:         "Create",
			method:       http.MethodPost,
			path:         "/api/albums",
			body:         `{"title":"OK Computer","artist":"Radiohead","year":1997,"rating":9.2}`,
			expectStatus: http.StatusCreated,
			albums:       4,
		},
		{
			name:         "Create_ValidationFailed",
			method:       http.MethodPost,
			path:         "/api/albums",
			body:         `{"title":"","artist":"Radiohead","year":1997}`,
			expectStatus: http.StatusBadRequest,
			albums:       3,
		},
		{
			name:         "Create_MalformedBody",
			method:       http.MethodPost,
			path:         "/api/albums",
			body:         `{"title":`,
			expectStatus: http.StatusBadRequest,
			albums:       3,
		},
		{
			name:         "Update",
			method:       http.MethodPut,
			path:         "/api/albums/3",
			body:         `{"title":"Nevermind (Remaster)","artist":"Nirvana","year":2011,"rating":"9.1"}`,
			expectStatus: http.StatusNoContent,
			albums:       3,
		},
		{
			name:         "Update_NotFound",
			method:       http.MethodPut,
			path:         "/api/albums/999",
			body:         `{"title":"X","artist":"Y","year":2000,"rating":1}`,
			expectStatus: http.StatusNotFound,
			albums:       3,
		},
		{
			name:         "Delete",
			method:       http.MethodDelete,
			path:         "/api/albums/1",
			expectStatus: http.StatusNoContent,
			albums:       2,
		},
		{
			name:         "Delete_UnknownStrategy",
			method:       http.MethodDelete,
			path:         "/api/albums/1?strategy=lazy",
			expectStatus: http.StatusBadRequest,
			albums:       3,
		},
		{
			name:         "Create_UnknownStrategy",
			method:       http.MethodPost,
			path:         "/api/albums?strategy=lazy",
			body:         `{"title":"OK Computer","artist":"Radiohead","year":1997,"rating":9.2}`,
			expectStatus: http.StatusBadRequest,
			albums:       3,
		},
		{
			name:         "Transactional",
			method:       http.MethodPost,
			path:         "/api/albums/transactional",
			body:         `{"album_title":"Kid A","artist":"Radiohead","year":2000,"rating":8.9,"tracks":[{"title":"Idioteque","duration_seconds":309}]}`,
			expectStatus: http.StatusCreated,
			albums:       4,
		},
		{
			name:         "Transactional_EmptyTracks",
			method:       http.MethodPost,
			path:         "/api/albums/transactional",
			body:         `{"album_title":"Kid A","artist":"Radiohead","year":2000,"rating":8.9,"tracks":[]}`,
			expectStatus: http.StatusBadRequest,
			albums:       3,
		},
		{
			name:         "TransactionScope",
			method:       http.MethodPost,
			path:         "/api/albums/transaction-scope",
			body:         `{"album_title":"Kid A","artist":"Radiohead","year":2000,"rating":8.9,"tracks":[{"title":"Idioteque","duration_seconds":309}]}`,
			expectStatus: http.StatusCreated,
			albums:       4,
		},
		{
			name:         "TransactionScope_InvalidTrack",
			method:       http.MethodPost,
			path:         "/api/albums/transaction-scope",
			body:         `{"album_title":"Kid A","artist":"Radiohead","year":2000,"rating":8.9,"tracks":[{"title":"Idioteque","duration_seconds":0}]}`,
			expectStatus: http.StatusBadRequest,
			albums:       3,
		},
		{
			name:         "BatchInsert",
			method:       http.MethodPost,
			path:         "/api/albums/tracks/batch",
			body:         `{"tracks":[{"title":"Intro","duration_seconds":30,"album_id":3}]}`,
			expectStatus: http.StatusCreated,
			albums:       3,
		},
		{
			name:         "BatchDelete_MissingQuery",
			method:       http.MethodDelete,
			path:         "/api/albums/tracks/batch",
			expectStatus: http.StatusBadRequest,
			albums:       3,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, db := setupControllers(t)
			resp := doRequest(t, app, tc.method, tc.path, tc.body)
			require.Equal(t, tc.expectStatus, resp.StatusCode)

			var n int
			require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM albums").Scan(&n))
			require.Equal(t, tc.albums, n)
		})
	}
}

func TestAlbumController_DeleteCascadesTracks(t *testing.T) {
	app, db := setupControllers(t)

	resp := doRequest(t, app, http.MethodDelete, "/api/albums/2", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM tracks WHERE album_id = 2").Scan(&n))
	require.Zero(t, n)
}

func TestReportController(t *testing.T) {
	app, _ := setupControllers(t)

	t.Run("TotalTracks", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/reports/total-tracks", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.EqualValues(t, 5, decode[dto.TotalTracksResponse](t, resp).Total)
	})

	t.Run("TopAlbums_DefaultLimit", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/reports/top-albums", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		albums := decode[[]dto.AlbumReportResponse](t, resp)
		require.Len(t, albums, 3)
		require.Equal(t, "Thriller", albums[0].Title)
	})

	t.Run("TopAlbums_LimitTooLarge", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/reports/top-albums?limit=500", "")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Stats", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/reports/stats?limit=1", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		stats := decode[dto.LibraryStatsResponse](t, resp)
		require.EqualValues(t, 5, stats.TotalTracks)
		require.Len(t, stats.TopAlbums, 1)
	})
}
