package ingest

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"moodfm/logger"
	"moodfm/storage"
)

// BlobStore is the remote object store boundary the pipeline uploads to.
type BlobStore interface {
	Upload(ctx context.Context, r io.Reader, size int64, contentType, moodFolder, ext string) (*storage.StoredObject, error)
	Delete(ctx context.Context, objectID string) bool
}

// MediaAcquirer normalizes the two input modes into one payload shape.
type MediaAcquirer interface {
	Direct(data []byte, contentType, fileName string) *AcquiredAudio
	FromVideo(ctx context.Context, rawURL string) (*AcquiredAudio, error)
}

// Result is the success payload of one ingestion.
type Result struct {
	SongID int64
	URL    string
	Mood   string
	Title  string
	Artist string
	Genre  string
	// Album is the album title, or "Single" when the song has none.
	Album string
}

// Pipeline sequences validation, acquisition, upload and persistence for one
// track. Each call is an independent unit of work; the pipeline itself holds
// no per-request state.
//
// The ordering is deliberate: the long-running upload happens before any
// database connection is taken, and the only cross-resource repair is the
// best-effort delete of an uploaded object after a failed transaction.
type Pipeline struct {
	acquirer MediaAcquirer
	store    BlobStore
	tx       TxIngestor
}

// NewPipeline wires the pipeline to its collaborators.
func NewPipeline(acquirer MediaAcquirer, store BlobStore, tx TxIngestor) *Pipeline {
	return &Pipeline{acquirer: acquirer, store: store, tx: tx}
}

// Ingest runs the full pipeline for one request: validate, acquire, upload,
// persist. On a persistence failure after a successful upload it attempts
// exactly one compensating delete of the orphaned object; the persistence
// error is returned either way.
func (p *Pipeline) Ingest(ctx context.Context, in *Input) (*Result, error) {
	v, err := Validate(in)
	if err != nil {
		return nil, err
	}

	audio, err := p.acquire(ctx, v)
	if err != nil {
		return nil, err
	}
	// The temp file behind an extracted payload is released on every exit
	// path from here on, upload success or not.
	defer audio.Close()

	meta := buildMeta(v, audio)

	obj, err := p.store.Upload(ctx, audio.Reader, audio.Size, audio.ContentType, meta.Mood, audio.Ext)
	if err != nil {
		return nil, &UploadError{Message: "failed to store audio in object store", Cause: err}
	}

	meta.URL = obj.URL
	meta.ObjectID = obj.ObjectID

	songID, err := p.tx.IngestSong(meta)
	if err != nil {
		// Compensate for the orphaned object. The original error wins no
		// matter how the compensation goes.
		if deleted := p.store.Delete(ctx, obj.ObjectID); !deleted {
			logger.Warn("Compensating delete failed, orphaned object remains",
				logger.String("objectId", obj.ObjectID))
		}
		return nil, err
	}

	album := strings.TrimSpace(meta.AlbumTitle)
	if album == "" {
		album = "Single"
	}

	return &Result{
		SongID: songID,
		URL:    obj.URL,
		Mood:   meta.Mood,
		Title:  meta.Title,
		Artist: meta.ArtistName,
		Genre:  meta.Genre,
		Album:  album,
	}, nil
}

func (p *Pipeline) acquire(ctx context.Context, v *Validated) (*AcquiredAudio, error) {
	if v.HasFile {
		return p.acquirer.Direct(v.Data, v.ContentType, v.FileName), nil
	}
	return p.acquirer.FromVideo(ctx, v.YouTubeURL)
}

// buildMeta fills the gaps the simplified variant leaves open: the title
// falls back to the video title or the upload's file name, and the artist to
// a placeholder the catalog can still resolve consistently.
func buildMeta(v *Validated, audio *AcquiredAudio) SongMeta {
	title := strings.TrimSpace(v.Title)
	if title == "" {
		if audio.Title != "" {
			title = audio.Title
		} else if v.FileName != "" {
			title = strings.TrimSuffix(filepath.Base(v.FileName), filepath.Ext(v.FileName))
		} else {
			title = "Untitled Track"
		}
	}

	artist := strings.TrimSpace(v.ArtistName)
	if artist == "" {
		artist = "Unknown Artist"
	}

	return SongMeta{
		Title:      title,
		ArtistName: artist,
		AlbumTitle: v.AlbumName,
		Genre:      v.Genre,
		Duration:   v.Duration,
		Mood:       v.Mood,
	}
}
