package ingest

import (
	"context"
	"testing"

	"moodfm/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSong(repo *fakeSongRepo, id int64, objectID string) *model.SongWithNames {
	song := &model.SongWithNames{
		Song: model.Song{
			ID:       id,
			Title:    "Test",
			ArtistID: 1,
			Mood:     "party",
			URL:      "http://store.local/moodfm/" + objectID,
			ObjectID: objectID,
		},
		Artist: "NewArtist",
	}
	repo.songs[id] = song
	return song
}

func TestDeleteSongRemovesRowAndObject(t *testing.T) {
	songs := newFakeSongRepo()
	store := &fakeBlobStore{}
	seedSong(songs, 7, "songs/party/obj.mp3")

	d := NewDeleter(songs, store)
	result, err := d.DeleteSong(context.Background(), 7)
	require.NoError(t, err)

	assert.True(t, result.StorageDeleted)
	assert.Equal(t, int64(7), result.Song.ID)
	assert.Equal(t, "NewArtist", result.Song.Artist)
	assert.Equal(t, []string{"songs/party/obj.mp3"}, store.deletes)
	assert.Equal(t, []int64{7}, songs.deleted)
	assert.Equal(t, 1, songs.committed)
}

func TestDeleteSongNotFound(t *testing.T) {
	songs := newFakeSongRepo()
	store := &fakeBlobStore{}

	d := NewDeleter(songs, store)
	_, err := d.DeleteSong(context.Background(), 42)

	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Empty(t, store.deletes, "no remote side effects for a missing song")
	assert.Zero(t, songs.begun, "no transaction opened for a missing song")
}

func TestDeleteSongToleratesRemoteFailure(t *testing.T) {
	songs := newFakeSongRepo()
	store := &fakeBlobStore{deleteFail: true}
	seedSong(songs, 7, "songs/party/obj.mp3")

	d := NewDeleter(songs, store)
	result, err := d.DeleteSong(context.Background(), 7)
	require.NoError(t, err, "remote failure must not abort the deletion")

	assert.False(t, result.StorageDeleted)
	assert.Equal(t, []int64{7}, songs.deleted, "row removed despite remote failure")
}

func TestDeleteSongWithoutObjectSkipsRemote(t *testing.T) {
	songs := newFakeSongRepo()
	store := &fakeBlobStore{}
	seedSong(songs, 7, "")

	d := NewDeleter(songs, store)
	result, err := d.DeleteSong(context.Background(), 7)
	require.NoError(t, err)

	assert.False(t, result.StorageDeleted)
	assert.Empty(t, store.deletes)
	assert.Equal(t, []int64{7}, songs.deleted)
}

func TestDeleteSongRowFailureRollsBack(t *testing.T) {
	songs := newFakeSongRepo()
	songs.deleteErr = assert.AnError
	store := &fakeBlobStore{}
	seedSong(songs, 7, "songs/party/obj.mp3")

	d := NewDeleter(songs, store)
	_, err := d.DeleteSong(context.Background(), 7)

	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, 1, songs.rolledBack)
	assert.Zero(t, songs.committed)
}
