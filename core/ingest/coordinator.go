package ingest

import (
	"database/sql"
	"strings"

	"moodfm/logger"
	"moodfm/model"
	"moodfm/repository"
)

// SongMeta is everything the transactional step needs to persist one song.
// URL and ObjectID reference an object the store has already confirmed.
type SongMeta struct {
	Title      string
	ArtistName string
	AlbumTitle string
	Genre      string
	Duration   int
	Mood       string
	URL        string
	ObjectID   string
}

// TxIngestor is the transactional unit of the pipeline.
type TxIngestor interface {
	IngestSong(meta SongMeta) (int64, error)
}

// Coordinator owns the atomic unit of work: one transaction covering artist
// resolution, optional album resolution and the song insert. It never holds
// a transaction open across the upload; by the time IngestSong runs, the
// object is already stored.
type Coordinator struct {
	artists repository.ArtistRepository
	albums  repository.AlbumRepository
	songs   repository.SongRepository
}

// NewCoordinator wires the coordinator to its repositories.
func NewCoordinator(artists repository.ArtistRepository, albums repository.AlbumRepository, songs repository.SongRepository) *Coordinator {
	return &Coordinator{artists: artists, albums: albums, songs: songs}
}

// IngestSong resolves the referenced entities and inserts the song row in a
// single transaction. Any failure rolls back and surfaces as a
// PersistenceError; the uploaded object is the caller's to compensate.
func (c *Coordinator) IngestSong(meta SongMeta) (int64, error) {
	tx, err := c.songs.BeginTx()
	if err != nil {
		return 0, &PersistenceError{Message: "could not begin database transaction", Cause: err}
	}

	songID, err := c.ingestInTx(tx, meta)
	if err != nil {
		c.songs.RollbackTx(tx)
		return 0, err
	}

	if err := c.songs.CommitTx(tx); err != nil {
		c.songs.RollbackTx(tx)
		return 0, &PersistenceError{Message: "could not commit song transaction", Cause: err}
	}

	logger.Info("Song persisted",
		logger.Int64("songId", songID),
		logger.String("title", meta.Title),
		logger.String("artist", meta.ArtistName),
		logger.String("mood", meta.Mood))

	return songID, nil
}

func (c *Coordinator) ingestInTx(tx *sql.Tx, meta SongMeta) (int64, error) {
	artistID, err := c.artists.ResolveArtistWithTx(tx, meta.ArtistName)
	if err != nil {
		return 0, &PersistenceError{Message: "could not resolve artist", Cause: err}
	}

	// Empty or whitespace-only album titles mean "Single": no album row,
	// ever.
	var albumID *int64
	if title := strings.TrimSpace(meta.AlbumTitle); title != "" {
		id, err := c.albums.ResolveAlbumWithTx(tx, title, artistID)
		if err != nil {
			return 0, &PersistenceError{Message: "could not resolve album", Cause: err}
		}
		albumID = &id
	}

	songID, err := c.songs.CreateSongWithTx(tx, &model.Song{
		Title:    meta.Title,
		ArtistID: artistID,
		AlbumID:  albumID,
		Genre:    meta.Genre,
		Duration: meta.Duration,
		Mood:     meta.Mood,
		URL:      meta.URL,
		ObjectID: meta.ObjectID,
	})
	if err != nil {
		return 0, &PersistenceError{Message: "could not insert song", Cause: err}
	}

	return songID, nil
}
