package dto

import "github.com/shopspring/decimal"

type AlbumResponse struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Artist string          `json:"artist"`
	Year   int             `json:"year"`
	Rating decimal.Decimal `json:"rating"`
}

type TrackResponse struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	DurationSeconds int    `json:"duration_seconds"`
	AlbumID         int64  `json:"album_id"`
}

type AlbumWithTracksResponse struct {
	AlbumResponse
	Tracks []TrackResponse `json:"tracks"`
}

type AlbumDetailResponse struct {
	AlbumWithTracksResponse
	TrackCount      int     `json:"track_count"`
	AverageDuration float64 `json:"average_duration"`
}

type AlbumsAndTracksResponse struct {
	Albums []AlbumResponse `json:"albums"`
	Tracks []TrackResponse `json:"tracks"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

type RowsAffectedResponse struct {
	Rows int64 `json:"rows"`
}
