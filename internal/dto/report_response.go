package dto

type AlbumReportResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	TrackCount  int     `json:"track_count"`
	AvgDuration float64 `json:"avg_duration"`
}

type TotalTracksResponse struct {
	Total int64 `json:"total"`
}

type LibraryStatsResponse struct {
	TotalTracks int64                 `json:"total_tracks"`
	TopAlbums   []AlbumReportResponse `json:"top_albums"`
}
