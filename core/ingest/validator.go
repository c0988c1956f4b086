package ingest

import (
	"sort"
	"strings"

	"moodfm/model"

	"github.com/h2non/filetype"
)

// Variant selects which upload endpoint's rules apply. The two endpoints
// deliberately require different fields and accept different mood sets.
type Variant int

const (
	// VariantFull requires full metadata and a file payload.
	VariantFull Variant = iota
	// VariantSimple requires only a mood plus a file or a video URL.
	VariantSimple
)

// sniffLen is how many leading bytes filetype needs to match a signature.
const sniffLen = 262

// allowedAudioTypes is the MIME whitelist for uploaded payloads. Anything
// not listed is rejected, including types that merely look plausible.
var allowedAudioTypes = map[string]struct{}{
	"audio/mpeg":   {},
	"audio/mp3":    {},
	"audio/wav":    {},
	"audio/x-wav":  {},
	"audio/mp4":    {},
	"audio/m4a":    {},
	"audio/flac":   {},
	"audio/x-flac": {},
	"audio/aac":    {},
}

// Input carries the raw request fields plus the payload descriptor.
type Input struct {
	Variant Variant
	Profile *model.MoodProfile

	Title      string
	ArtistName string
	AlbumName  string
	Genre      string
	Duration   int
	Mood       string

	YouTubeURL string

	HasFile     bool
	FileName    string
	ContentType string
	// Data is the buffered payload in file mode. Its head bytes feed
	// content sniffing; an empty slice skips the sniff.
	Data []byte
}

// Validated is the normalized form of an Input that passed validation.
type Validated struct {
	Input
	// Mood is the normalized, stored form (always lowercase, possibly the
	// "other" fallback on the coercing profile).
	Mood string
}

// Validate checks an ingestion request and normalizes its mood. It is a pure
// function of its input; no side effects.
func Validate(in *Input) (*Validated, error) {
	if !in.HasFile && strings.TrimSpace(in.YouTubeURL) == "" {
		return nil, NewValidationError("no audio file uploaded and no video URL provided")
	}

	if in.Variant == VariantFull {
		// The full endpoint is file-only. A video URL alone is not a
		// substitute for the audio part here.
		if !in.HasFile {
			return nil, NewValidationError("no audio file uploaded")
		}
		missing := missingFields(map[string]string{
			"title":       in.Title,
			"artist_name": in.ArtistName,
			"genre":       in.Genre,
		})
		if in.Duration <= 0 {
			missing = append(missing, "duration")
			sort.Strings(missing)
		}
		if len(missing) > 0 {
			return nil, NewValidationError("missing required fields: %s", strings.Join(missing, ", "))
		}
	}

	if in.HasFile {
		head := in.Data
		if len(head) > sniffLen {
			head = head[:sniffLen]
		}
		if err := checkAudioType(in.ContentType, head); err != nil {
			return nil, err
		}
	}

	mood, ok := in.Profile.Normalize(in.Mood)
	if !ok {
		accepted := in.Profile.Accepted()
		sort.Strings(accepted)
		return nil, NewValidationError("invalid mood %q, accepted values: %s",
			in.Mood, strings.Join(accepted, ", "))
	}

	return &Validated{Input: *in, Mood: mood}, nil
}

func missingFields(fields map[string]string) []string {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// checkAudioType enforces the MIME whitelist on the declared content type
// and, when head bytes are available, cross-checks them against the actual
// file signature. A recognized non-audio signature overrides whatever the
// client declared.
func checkAudioType(contentType string, head []byte) error {
	declared := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if _, ok := allowedAudioTypes[declared]; !ok {
		return NewValidationError("invalid file type: %s, supported types: MP3, WAV, M4A, FLAC, AAC", contentType)
	}

	if len(head) > 0 {
		kind, err := filetype.Match(head)
		if err == nil && kind != filetype.Unknown {
			if _, ok := allowedAudioTypes[kind.MIME.Value]; !ok && !filetype.IsAudio(head) {
				return NewValidationError("file content does not look like audio (detected %s)", kind.MIME.Value)
			}
		}
	}

	return nil
}
