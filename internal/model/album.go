package model

import "github.com/shopspring/decimal"

type Album struct {
	ID     int64           `gorm:"primaryKey" json:"id"`
	Title  string          `gorm:"size:200;not null" json:"title"`
	Artist string          `gorm:"not null" json:"artist"`
	Year   int             `gorm:"not null" json:"year"`
	Rating decimal.Decimal `gorm:"type:numeric(3,1);not null" json:"rating"`
	Tracks []Track         `gorm:"foreignKey:AlbumID;constraint:OnDelete:CASCADE" json:"tracks,omitempty"`
}

// AlbumWithTracks is an album joined with its tracks, built in memory per query.
type AlbumWithTracks struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Artist string          `json:"artist"`
	Year   int             `json:"year"`
	Rating decimal.Decimal `json:"rating"`
	Tracks []Track         `json:"tracks"`
}

// AlbumDetail extends the aggregate with figures computed from its tracks.
type AlbumDetail struct {
	AlbumWithTracks
	TrackCount      int     `json:"track_count"`
	AverageDuration float64 `json:"average_duration"`
}

type AlbumReport struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	TrackCount  int     `json:"track_count"`
	AvgDuration float64 `json:"avg_duration"`
}

type LibraryStats struct {
	TotalTracks int64         `json:"total_tracks"`
	TopAlbums   []AlbumReport `json:"top_albums"`
}
