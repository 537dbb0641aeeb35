package model

type Track struct {
	ID              int64  `gorm:"primaryKey" json:"id"`
	Title           string `gorm:"size:200;not null" json:"title"`
	DurationSeconds int    `gorm:"not null" json:"duration_seconds"`
	AlbumID         int64  `gorm:"not null;index" json:"album_id"`
}

// NewTrack is a track that has not been written yet; its album is assigned on insert.
type NewTrack struct {
	Title           string
	DurationSeconds int
}
