package dto

import "github.com/shopspring/decimal"

type AlbumRequest struct {
	Title  string          `json:"title" validate:"required,max=200"`
	Artist string          `json:"artist" validate:"required,max=200"`
	Year   int             `json:"year" validate:"gte=1000,lte=9999"`
	Rating decimal.Decimal `json:"rating"`
}

type TrackRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	DurationSeconds int    `json:"duration_seconds" validate:"gt=0"`
}

type AddTrackRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	DurationSeconds int    `json:"duration_seconds" validate:"gt=0"`
	AlbumID         int64  `json:"album_id" validate:"gt=0"`
}

// AddAlbumWithTracksRequest leaves the empty track list to the repository, which
// rejects it before any statement is sent.
type AddAlbumWithTracksRequest struct {
	AlbumTitle string          `json:"album_title" validate:"required,max=200"`
	Artist     string          `json:"artist" validate:"required,max=200"`
	Year       int             `json:"year" validate:"gte=1000,lte=9999"`
	Rating     decimal.Decimal `json:"rating"`
	Tracks     []TrackRequest  `json:"tracks" validate:"dive"`
}

type BatchTracksRequest struct {
	Tracks []AddTrackRequest `json:"tracks" validate:"required,min=1,dive"`
}

type UpdateDurationRequest struct {
	MinDuration int `json:"min_duration" validate:"gte=0"`
	NewDuration int `json:"new_duration" validate:"gt=0"`
}

type DeleteShortTracksRequest struct {
	MaxDuration int `query:"shorter_than" validate:"gt=0"`
}

type TopAlbumsRequest struct {
	Limit int `query:"limit" validate:"min=1,max=100"`
}

func (r *TopAlbumsRequest) SetDefault() {
	if r.Limit == 0 {
		r.Limit = 5
	}
}
