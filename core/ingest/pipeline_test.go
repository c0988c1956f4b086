package ingest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"moodfm/model"
	"moodfm/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploadCall struct {
	size        int64
	contentType string
	moodFolder  string
	ext         string
}

type fakeBlobStore struct {
	uploads    []uploadCall
	deletes    []string
	uploadErr  error
	deleteFail bool
}

func (s *fakeBlobStore) Upload(ctx context.Context, r io.Reader, size int64, contentType, moodFolder, ext string) (*storage.StoredObject, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	s.uploads = append(s.uploads, uploadCall{size: size, contentType: contentType, moodFolder: moodFolder, ext: ext})
	return &storage.StoredObject{
		URL:      "http://store.local/moodfm/songs/" + moodFolder + "/obj" + ext,
		ObjectID: "songs/" + moodFolder + "/obj" + ext,
	}, nil
}

func (s *fakeBlobStore) Delete(ctx context.Context, objectID string) bool {
	s.deletes = append(s.deletes, objectID)
	return !s.deleteFail
}

type fakeAcquirer struct {
	videoAudio   *AcquiredAudio
	fromVideoErr error
	cleanups     int
}

func (a *fakeAcquirer) Direct(data []byte, contentType, fileName string) *AcquiredAudio {
	return &AcquiredAudio{
		Reader:      bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: contentType,
		Ext:         ".mp3",
		cleanup:     func() { a.cleanups++ },
	}
}

func (a *fakeAcquirer) FromVideo(ctx context.Context, rawURL string) (*AcquiredAudio, error) {
	if a.fromVideoErr != nil {
		return nil, a.fromVideoErr
	}
	a.videoAudio.cleanup = func() { a.cleanups++ }
	return a.videoAudio, nil
}

type fakeTxIngestor struct {
	err    error
	metas  []SongMeta
	nextID int64
}

func (f *fakeTxIngestor) IngestSong(meta SongMeta) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.metas = append(f.metas, meta)
	f.nextID++
	return f.nextID, nil
}

func newTestPipeline() (*Pipeline, *fakeAcquirer, *fakeBlobStore, *fakeTxIngestor) {
	acquirer := &fakeAcquirer{}
	store := &fakeBlobStore{}
	tx := &fakeTxIngestor{}
	return NewPipeline(acquirer, store, tx), acquirer, store, tx
}

func testInput() *Input {
	return &Input{
		Variant:     VariantFull,
		Profile:     model.ProfileRich,
		Title:       "Test",
		ArtistName:  "NewArtist",
		Genre:       "Pop",
		Duration:    180,
		Mood:        "party",
		HasFile:     true,
		FileName:    "test.mp3",
		ContentType: "audio/mpeg",
		Data:        id3Head,
	}
}

func TestIngestSuccess(t *testing.T) {
	p, acquirer, store, tx := newTestPipeline()

	result, err := p.Ingest(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.SongID)
	assert.Equal(t, "party", result.Mood)
	assert.Equal(t, "NewArtist", result.Artist)
	assert.Equal(t, "Single", result.Album)
	assert.NotEmpty(t, result.URL)

	require.Len(t, store.uploads, 1)
	assert.Equal(t, "party", store.uploads[0].moodFolder)
	assert.Equal(t, "audio/mpeg", store.uploads[0].contentType)

	require.Len(t, tx.metas, 1)
	assert.Equal(t, "songs/party/obj.mp3", tx.metas[0].ObjectID)
	assert.NotEmpty(t, tx.metas[0].URL)

	assert.Empty(t, store.deletes, "no compensation on success")
	assert.Equal(t, 1, acquirer.cleanups, "payload released exactly once")
}

func TestIngestAlbumNameCarriedThrough(t *testing.T) {
	p, _, _, tx := newTestPipeline()

	in := testInput()
	in.AlbumName = "Greatest Hits"

	result, err := p.Ingest(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Greatest Hits", result.Album)
	assert.Equal(t, "Greatest Hits", tx.metas[0].AlbumTitle)
}

func TestIngestValidationFailureTouchesNothing(t *testing.T) {
	p, acquirer, store, tx := newTestPipeline()

	in := testInput()
	in.Mood = "party"
	in.HasFile = false
	in.Data = nil

	_, err := p.Ingest(context.Background(), in)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	assert.Empty(t, store.uploads)
	assert.Empty(t, store.deletes)
	assert.Empty(t, tx.metas)
	assert.Zero(t, acquirer.cleanups)
}

func TestIngestFullVariantURLOnlyNeverAcquires(t *testing.T) {
	p, acquirer, store, tx := newTestPipeline()

	in := testInput()
	in.HasFile = false
	in.Data = nil
	in.YouTubeURL = "https://youtu.be/dQw4w9WgXcQ"

	_, err := p.Ingest(context.Background(), in)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	assert.Empty(t, store.uploads, "full variant must not fall through to extraction")
	assert.Empty(t, tx.metas)
	assert.Zero(t, acquirer.cleanups)
}

func TestIngestUploadFailureSkipsPersistence(t *testing.T) {
	p, acquirer, store, tx := newTestPipeline()
	store.uploadErr = errors.New("connection reset")

	_, err := p.Ingest(context.Background(), testInput())
	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)

	assert.Empty(t, tx.metas, "must not reach the transactional step")
	assert.Empty(t, store.deletes, "nothing persisted, nothing to compensate")
	assert.Equal(t, 1, acquirer.cleanups, "payload still released")
}

func TestIngestPersistenceFailureCompensatesOnce(t *testing.T) {
	p, _, store, tx := newTestPipeline()
	tx.err = &PersistenceError{Message: "could not insert song"}

	_, err := p.Ingest(context.Background(), testInput())
	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)

	require.Len(t, store.deletes, 1, "compensating delete attempted exactly once")
	assert.Equal(t, "songs/party/obj.mp3", store.deletes[0])
}

func TestIngestPersistenceErrorWinsOverCompensationFailure(t *testing.T) {
	p, _, store, tx := newTestPipeline()
	tx.err = &PersistenceError{Message: "could not insert song"}
	store.deleteFail = true

	_, err := p.Ingest(context.Background(), testInput())
	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, "could not insert song", persistErr.Message)
	require.Len(t, store.deletes, 1)
}

func TestIngestVideoModeUsesVideoTitle(t *testing.T) {
	p, acquirer, store, tx := newTestPipeline()
	acquirer.videoAudio = &AcquiredAudio{
		Reader:      bytes.NewReader([]byte("extracted")),
		Size:        9,
		ContentType: "audio/mpeg",
		Ext:         ".mp3",
		Title:       "Never Gonna Give You Up",
	}

	in := &Input{
		Variant:    VariantSimple,
		Profile:    model.ProfileRestricted,
		Mood:       "love",
		YouTubeURL: "https://youtu.be/dQw4w9WgXcQ",
	}

	result, err := p.Ingest(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "Never Gonna Give You Up", result.Title)
	assert.Equal(t, "Unknown Artist", result.Artist)
	assert.Equal(t, "love", result.Mood)
	require.Len(t, store.uploads, 1)
	assert.Equal(t, "love", store.uploads[0].moodFolder)
	require.Len(t, tx.metas, 1)
	assert.Equal(t, 1, acquirer.cleanups)
}

func TestIngestAcquisitionFailure(t *testing.T) {
	p, acquirer, store, tx := newTestPipeline()
	acquirer.fromVideoErr = &AcquisitionError{Message: "audio extraction failed"}

	in := &Input{
		Variant:    VariantSimple,
		Profile:    model.ProfileRestricted,
		Mood:       "love",
		YouTubeURL: "https://youtu.be/dQw4w9WgXcQ",
	}

	_, err := p.Ingest(context.Background(), in)
	var acqErr *AcquisitionError
	require.ErrorAs(t, err, &acqErr)

	assert.Empty(t, store.uploads)
	assert.Empty(t, tx.metas)
}

func TestIngestSimpleVariantTitleFromFileName(t *testing.T) {
	p, _, _, _ := newTestPipeline()

	in := &Input{
		Variant:     VariantSimple,
		Profile:     model.ProfileRestricted,
		Mood:        "sadness",
		HasFile:     true,
		FileName:    "Blue In Green.mp3",
		ContentType: "audio/mpeg",
		Data:        id3Head,
	}

	result, err := p.Ingest(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Blue In Green", result.Title)
}
