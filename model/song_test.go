package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSongListingJSONUsesPlainNullables(t *testing.T) {
	single := &SongWithNames{
		Song: Song{
			ID:       1,
			Title:    "Blue In Green",
			ArtistID: 2,
			Mood:     "love",
		},
		Artist: "Miles Davis",
	}

	data, err := json.Marshal(single)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"albumId":null`)
	assert.Contains(t, string(data), `"album":null`)
	assert.NotContains(t, string(data), `"Valid"`)

	albumID := int64(3)
	albumTitle := "Kind of Blue"
	withAlbum := &SongWithNames{
		Song:   Song{ID: 1, Title: "Blue In Green", ArtistID: 2, AlbumID: &albumID},
		Artist: "Miles Davis",
		Album:  &albumTitle,
	}

	data, err = json.Marshal(withAlbum)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"albumId":3`)
	assert.Contains(t, string(data), `"album":"Kind of Blue"`)
}

func TestAlbumJSONUsesPlainNullables(t *testing.T) {
	album := &AlbumWithArtist{
		Album:      Album{ID: 1, Title: "Kind of Blue", ArtistID: 2},
		ArtistName: "Miles Davis",
	}

	data, err := json.Marshal(album)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"releaseYear":null`)
	assert.NotContains(t, string(data), `"Valid"`)

	year := int64(1959)
	album.ReleaseYear = &year
	data, err = json.Marshal(album)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"releaseYear":1959`)
}
