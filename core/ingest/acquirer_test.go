package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"watch form", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"watch form without www", "https://youtube.com/watch?v=abc123", "abc123", false},
		{"watch form with extra params", "https://www.youtube.com/watch?v=abc123&t=42s", "abc123", false},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"short link with query", "https://youtu.be/abc123?si=xyz", "abc123", false},
		{"music subdomain", "https://music.youtube.com/watch?v=abc123", "abc123", false},
		{"mobile subdomain", "https://m.youtube.com/watch?v=abc123", "abc123", false},
		{"surrounding whitespace", "  https://youtu.be/abc123  ", "abc123", false},
		{"watch form without v", "https://www.youtube.com/watch?t=42", "", true},
		{"short link without id", "https://youtu.be/", "", true},
		{"unrelated host", "https://example.com/watch?v=abc123", "", true},
		{"not a url", "definitely not a url", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.url)
			if tt.wantErr {
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAcquirerDirect(t *testing.T) {
	a := &Acquirer{}
	data := []byte("fake audio bytes")

	audio := a.Direct(data, "audio/mpeg", "My Song.MP3")
	defer audio.Close()

	assert.Equal(t, int64(len(data)), audio.Size)
	assert.Equal(t, "audio/mpeg", audio.ContentType)
	assert.Equal(t, ".mp3", audio.Ext)
	assert.Empty(t, audio.Title)
}

func TestAcquirerDirectExtFallback(t *testing.T) {
	a := &Acquirer{}
	audio := a.Direct([]byte("x"), "audio/mpeg", "noextension")
	defer audio.Close()

	assert.Equal(t, ".mp3", audio.Ext)
}

func TestAcquiredAudioCloseIsIdempotent(t *testing.T) {
	calls := 0
	audio := &AcquiredAudio{cleanup: func() { calls++ }}

	audio.Close()
	audio.Close()
	audio.Close()

	assert.Equal(t, 1, calls)
}
