package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/AliOraei78/MusicLibrarySystem/internal/model"
)

// Scanner is satisfied by *sql.Rows, *sql.Row and pgx.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// RowShape declares the exact columns a statement must return and how one row is read.
// Columns are matched by name and position; nothing is bound by reflection.
type RowShape[T any] struct {
	Name    string
	Columns []string
	Scan    func(Scanner) (T, error)
}

func (s RowShape[T]) check(rows *sql.Rows) error {
	got, err := rows.Columns()
	if err != nil {
		return &MappingError{Shape: s.Name, Err: err}
	}
	return s.checkNames(got)
}

func (s RowShape[T]) checkNames(got []string) error {
	if len(got) != len(s.Columns) {
		return &MappingError{Shape: s.Name, Err: fmt.Errorf("expected %d columns %v, got %d %v", len(s.Columns), s.Columns, len(got), got)}
	}
	for i, col := range s.Columns {
		if !strings.EqualFold(got[i], col) {
			return &MappingError{Shape: s.Name, Err: fmt.Errorf("column %d is %q, expected %q", i, got[i], col)}
		}
	}
	return nil
}

func (s RowShape[T]) read(row Scanner) (T, error) {
	v, err := s.Scan(row)
	if err != nil {
		var zero T
		return zero, &MappingError{Shape: s.Name, Err: err}
	}
	return v, nil
}

// columnList renders the shape's columns for a SELECT clause.
func (s RowShape[T]) columnList() string {
	return strings.Join(s.Columns, ", ")
}

var albumShape = RowShape[model.Album]{
	Name:    "album",
	Columns: []string{"id", "title", "artist", "year", "rating"},
	Scan: func(row Scanner) (model.Album, error) {
		var a model.Album
		err := row.Scan(&a.ID, &a.Title, &a.Artist, &a.Year, &a.Rating)
		return a, err
	},
}

var trackShape = RowShape[model.Track]{
	Name:    "track",
	Columns: []string{"id", "title", "duration_seconds", "album_id"},
	Scan: func(row Scanner) (model.Track, error) {
		var t model.Track
		err := row.Scan(&t.ID, &t.Title, &t.DurationSeconds, &t.AlbumID)
		return t, err
	},
}

// albumTrackRow is one row of the album LEFT JOIN tracks projection.
// Track columns are NULL for an album without tracks.
type albumTrackRow struct {
	Album           model.Album
	TrackID         sql.NullInt64
	TrackTitle      sql.NullString
	DurationSeconds sql.NullInt64
}

var albumTrackShape = RowShape[albumTrackRow]{
	Name:    "album_track",
	Columns: []string{"album_id", "album_title", "artist", "year", "rating", "track_id", "track_title", "duration_seconds"},
	Scan: func(row Scanner) (albumTrackRow, error) {
		var r albumTrackRow
		err := row.Scan(
			&r.Album.ID, &r.Album.Title, &r.Album.Artist, &r.Album.Year, &r.Album.Rating,
			&r.TrackID, &r.TrackTitle, &r.DurationSeconds,
		)
		return r, err
	},
}

var albumReportShape = RowShape[model.AlbumReport]{
	Name:    "album_report",
	Columns: []string{"id", "title", "artist", "track_count", "avg_duration"},
	Scan: func(row Scanner) (model.AlbumReport, error) {
		var r model.AlbumReport
		err := row.Scan(&r.ID, &r.Title, &r.Artist, &r.TrackCount, &r.AvgDuration)
		return r, err
	},
}

// Group is one parent with the children collected for it.
type Group[P, C any] struct {
	Parent   P
	Children []C
}

// Aggregator folds a flat one-to-many result into groups keyed by parent identity.
// Groups come out in first-encounter order and each parent appears exactly once.
type Aggregator[K comparable, P, C any] struct {
	index  map[K]int
	groups []Group[P, C]
}

func NewAggregator[K comparable, P, C any]() *Aggregator[K, P, C] {
	return &Aggregator[K, P, C]{index: make(map[K]int)}
}

// Add registers parent under key and appends child when hasChild is set.
// The parent value of the first row for a key wins.
func (a *Aggregator[K, P, C]) Add(key K, parent P, child C, hasChild bool) {
	i, ok := a.index[key]
	if !ok {
		i = len(a.groups)
		a.index[key] = i
		a.groups = append(a.groups, Group[P, C]{Parent: parent, Children: []C{}})
	}
	if hasChild {
		a.groups[i].Children = append(a.groups[i].Children, child)
	}
}

func (a *Aggregator[K, P, C]) Len() int { return len(a.groups) }

func (a *Aggregator[K, P, C]) Results() []Group[P, C] {
	return a.groups
}

// aggregateAlbums folds joined rows into albums with tracks.
func aggregateAlbums(rows []albumTrackRow) []model.AlbumWithTracks {
	agg := NewAggregator[int64, model.Album, model.Track]()
	for _, r := range rows {
		var track model.Track
		if r.TrackID.Valid {
			track = model.Track{
				ID:              r.TrackID.Int64,
				Title:           r.TrackTitle.String,
				DurationSeconds: int(r.DurationSeconds.Int64),
				AlbumID:         r.Album.ID,
			}
		}
		agg.Add(r.Album.ID, r.Album, track, r.TrackID.Valid)
	}

	out := make([]model.AlbumWithTracks, 0, agg.Len())
	for _, g := range agg.Results() {
		out = append(out, model.AlbumWithTracks{
			ID:     g.Parent.ID,
			Title:  g.Parent.Title,
			Artist: g.Parent.Artist,
			Year:   g.Parent.Year,
			Rating: g.Parent.Rating,
			Tracks: g.Children,
		})
	}
	return out
}
