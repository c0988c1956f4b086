package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"moodfm/logger"
	"moodfm/model"

	"github.com/redis/go-redis/v9"
)

const songListTTL = 5 * time.Minute

// SongCache keeps song listings in Redis so the read endpoints don't hit
// MySQL on every request. Ingestion and deletion invalidate the affected
// keys. A nil client degrades to a pass-through: every read is a miss.
type SongCache struct {
	client *redis.Client
}

// NewSongCache wraps the given Redis client.
func NewSongCache(client *redis.Client) *SongCache {
	return &SongCache{client: client}
}

// AllSongsKey is the cache key for the unfiltered song listing.
func AllSongsKey() string {
	return "songs:all"
}

// MoodKey is the cache key for one mood's song listing.
func MoodKey(mood string) string {
	return fmt.Sprintf("songs:mood:%s", mood)
}

// GetSongs returns the cached listing for key, or (nil, false) on a miss.
func (c *SongCache) GetSongs(ctx context.Context, key string) ([]*model.SongWithNames, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("Song cache read failed", logger.String("key", key), logger.ErrorField(err))
		}
		return nil, false
	}

	var songs []*model.SongWithNames
	if err := json.Unmarshal(data, &songs); err != nil {
		logger.Warn("Song cache entry corrupt, dropping", logger.String("key", key), logger.ErrorField(err))
		c.client.Del(ctx, key)
		return nil, false
	}
	return songs, true
}

// SetSongs stores a listing under key. Failures are logged and ignored; the
// cache is an accelerator, not a source of truth.
func (c *SongCache) SetSongs(ctx context.Context, key string, songs []*model.SongWithNames) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(songs)
	if err != nil {
		logger.Warn("Song cache marshal failed", logger.String("key", key), logger.ErrorField(err))
		return
	}
	if err := c.client.Set(ctx, key, data, songListTTL).Err(); err != nil {
		logger.Warn("Song cache write failed", logger.String("key", key), logger.ErrorField(err))
	}
}

// Invalidate drops the unfiltered listing plus the listings for the given
// moods. Called after every successful ingest or delete.
func (c *SongCache) Invalidate(ctx context.Context, moods ...string) {
	if c.client == nil {
		return
	}

	keys := []string{AllSongsKey()}
	for _, mood := range moods {
		keys = append(keys, MoodKey(mood))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("Song cache invalidation failed", logger.ErrorField(err))
	}
}
