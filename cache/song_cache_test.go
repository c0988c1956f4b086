package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "songs:all", AllSongsKey())
	assert.Equal(t, "songs:mood:party", MoodKey("party"))
}

func TestNilClientDegradesToPassThrough(t *testing.T) {
	c := NewSongCache(nil)
	ctx := context.Background()

	songs, ok := c.GetSongs(ctx, AllSongsKey())
	assert.False(t, ok)
	assert.Nil(t, songs)

	// Writes and invalidations must be safe no-ops.
	c.SetSongs(ctx, AllSongsKey(), nil)
	c.Invalidate(ctx, "party")
}
