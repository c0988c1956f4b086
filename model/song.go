package model

import "time"

// Song represents one catalog track. URL and ObjectID reference the copy of
// the audio bytes held by the object store; ObjectID is the opaque handle
// used for remote deletion. AlbumID is nil for singles; pointer fields keep
// the JSON shape plain (value or null) for listing responses.
type Song struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	ArtistID  int64     `json:"artistId"`
	AlbumID   *int64    `json:"albumId"`
	Genre     string    `json:"genre"`
	Duration  int       `json:"duration"` // whole seconds
	Mood      string    `json:"mood"`
	URL       string    `json:"url"`
	ObjectID  string    `json:"objectId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SongWithNames is a song joined with its artist name and optional album title.
type SongWithNames struct {
	Song
	Artist string  `json:"artist"`
	Album  *string `json:"album"`
}
