package model

import "time"

// Album represents an album owned by exactly one artist. Uniqueness is
// scoped to (title, artist_id): the same title may exist under different
// artists.
type Album struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	ArtistID    int64     `json:"artistId"`
	ReleaseYear *int64    `json:"releaseYear"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AlbumWithArtist carries an album joined with its artist name for listings.
type AlbumWithArtist struct {
	Album
	ArtistName string `json:"artistName"`
}
