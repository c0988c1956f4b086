package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"moodfm/config"
	"moodfm/logger"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const watchURLFormat = "https://www.youtube.com/watch?v=%s"

// ExtractVideoID pulls the platform video identifier out of a URL,
// supporting the query-parameter form (youtube.com/watch?v=ID) and the
// short-link form (youtu.be/ID).
func ExtractVideoID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", NewValidationError("invalid video URL: %s", rawURL)
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return id, nil
		}
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" && !strings.Contains(id, "/") {
			return id, nil
		}
	}

	return "", NewValidationError("could not extract a video ID from URL: %s", rawURL)
}

// AcquiredAudio is a normalized in-memory or on-disk audio payload ready for
// upload. Close must be called on every exit path; for extraction mode it
// removes the temporary download file.
type AcquiredAudio struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Ext         string
	// Title is the video title when known (extraction mode only).
	Title string

	closeOnce sync.Once
	cleanup   func()
}

// Close releases the payload's backing resources. Safe to call repeatedly.
func (a *AcquiredAudio) Close() {
	a.closeOnce.Do(func() {
		if a.cleanup != nil {
			a.cleanup()
		}
	})
}

// Acquirer normalizes the two ingestion input modes into one payload shape.
// Extraction mode shells out to yt-dlp the same way the transcoding path
// shells out to ffmpeg: build args, run under a bounded context, check the
// expected output exists.
type Acquirer struct {
	ytdlpPath string
	timeout   time.Duration
	oembed    *resty.Client
}

// NewAcquirer builds an Acquirer from the process configuration.
func NewAcquirer(cfg *config.Config) *Acquirer {
	return &Acquirer{
		ytdlpPath: cfg.YtdlpPath,
		timeout:   cfg.ExtractTimeout,
		oembed: resty.New().
			SetBaseURL("https://www.youtube.com").
			SetTimeout(10 * time.Second),
	}
}

// Direct wraps an already-buffered payload without touching it.
func (a *Acquirer) Direct(data []byte, contentType, fileName string) *AcquiredAudio {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".mp3"
	}
	return &AcquiredAudio{
		Reader:      bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: contentType,
		Ext:         ext,
	}
}

type oembedResponse struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// FromVideo downloads only the audio track of the referenced video into a
// uniquely named temporary file. The caller owns the returned payload and
// must Close it after the upload step regardless of the upload's outcome.
func (a *Acquirer) FromVideo(ctx context.Context, rawURL string) (*AcquiredAudio, error) {
	videoID, err := ExtractVideoID(rawURL)
	if err != nil {
		return nil, err
	}

	watchURL := fmt.Sprintf(watchURLFormat, videoID)
	title, err := a.probeVideo(ctx, watchURL)
	if err != nil {
		return nil, err
	}

	base := filepath.Join(os.TempDir(), "moodfm-"+uuid.NewString())
	outputPath := base + ".mp3"

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	args := []string{
		"--no-playlist",
		"-f", "bestaudio",
		"-x", "--audio-format", "mp3",
		"-o", base + ".%(ext)s",
		watchURL,
	}

	cmd := exec.CommandContext(ctx, a.ytdlpPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Info("Extracting audio track",
		logger.String("videoId", videoID),
		logger.String("title", title))

	if err := cmd.Run(); err != nil {
		os.Remove(outputPath)
		if ctx.Err() == context.DeadlineExceeded {
			return nil, &AcquisitionError{
				Message: fmt.Sprintf("audio extraction timed out for video %s", videoID),
				Cause:   ctx.Err(),
			}
		}
		return nil, &AcquisitionError{
			Message: fmt.Sprintf("audio extraction failed for video %s", videoID),
			Cause:   fmt.Errorf("yt-dlp: %w: %s", err, stderr.String()),
		}
	}

	f, err := os.Open(outputPath)
	if err != nil {
		os.Remove(outputPath)
		return nil, &AcquisitionError{
			Message: fmt.Sprintf("extraction produced no audio file for video %s", videoID),
			Cause:   err,
		}
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		os.Remove(outputPath)
		return nil, &AcquisitionError{
			Message: fmt.Sprintf("could not stat extracted audio for video %s", videoID),
			Cause:   err,
		}
	}

	return &AcquiredAudio{
		Reader:      f,
		Size:        stat.Size(),
		ContentType: "audio/mpeg",
		Ext:         ".mp3",
		Title:       title,
		cleanup: func() {
			f.Close()
			if err := os.Remove(outputPath); err != nil && !os.IsNotExist(err) {
				logger.Warn("Failed to remove temp audio file",
					logger.String("path", outputPath),
					logger.ErrorField(err))
			}
		},
	}, nil
}

// probeVideo checks the video exists via the oEmbed endpoint and returns its
// title. Saves a yt-dlp round trip for dead links.
func (a *Acquirer) probeVideo(ctx context.Context, watchURL string) (string, error) {
	var meta oembedResponse
	resp, err := a.oembed.R().
		SetContext(ctx).
		SetQueryParam("url", watchURL).
		SetQueryParam("format", "json").
		SetResult(&meta).
		Get("/oembed")
	if err != nil {
		return "", &AcquisitionError{
			Message: "could not reach video platform to verify URL",
			Cause:   err,
		}
	}
	if resp.IsError() {
		return "", &AcquisitionError{
			Message: fmt.Sprintf("video not found or unavailable (status %d)", resp.StatusCode()),
		}
	}
	return meta.Title, nil
}
