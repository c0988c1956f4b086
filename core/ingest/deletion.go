package ingest

import (
	"context"

	"moodfm/logger"
	"moodfm/model"
	"moodfm/repository"
)

// DeleteResult describes a completed song deletion. StorageDeleted reports
// whether the remote object was actually removed; "row gone, object possibly
// still present" is an acceptable terminal outcome, not an error.
type DeleteResult struct {
	Song           *model.SongWithNames
	StorageDeleted bool
}

// Deleter runs the ingestion pipeline's resources in reverse: remote object
// first, database row second, tolerating failure of the first step.
type Deleter struct {
	songs repository.SongRepository
	store BlobStore
}

// NewDeleter wires the deletion workflow.
func NewDeleter(songs repository.SongRepository, store BlobStore) *Deleter {
	return &Deleter{songs: songs, store: store}
}

// DeleteSong looks up the song, attempts the remote delete, then removes the
// database row in its own transaction. A missing song is a NotFoundError and
// performs no writes.
func (d *Deleter) DeleteSong(ctx context.Context, songID int64) (*DeleteResult, error) {
	song, err := d.songs.GetSongWithNames(songID)
	if err != nil {
		return nil, &PersistenceError{Message: "could not look up song", Cause: err}
	}
	if song == nil {
		return nil, &NotFoundError{Message: "song not found"}
	}

	storageDeleted := false
	if song.ObjectID != "" {
		storageDeleted = d.store.Delete(ctx, song.ObjectID)
		if !storageDeleted {
			logger.Warn("Remote object delete failed, removing row anyway",
				logger.Int64("songId", songID),
				logger.String("objectId", song.ObjectID))
		}
	}

	tx, err := d.songs.BeginTx()
	if err != nil {
		return nil, &PersistenceError{Message: "could not begin delete transaction", Cause: err}
	}
	if err := d.songs.DeleteSongWithTx(tx, songID); err != nil {
		d.songs.RollbackTx(tx)
		return nil, &PersistenceError{Message: "could not delete song row", Cause: err}
	}
	if err := d.songs.CommitTx(tx); err != nil {
		d.songs.RollbackTx(tx)
		return nil, &PersistenceError{Message: "could not commit song deletion", Cause: err}
	}

	logger.Info("Song deleted",
		logger.Int64("songId", songID),
		logger.String("title", song.Title),
		logger.Bool("storageDeleted", storageDeleted))

	return &DeleteResult{Song: song, StorageDeleted: storageDeleted}, nil
}
