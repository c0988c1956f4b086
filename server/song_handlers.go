package server

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"moodfm/cache"
	"moodfm/core/ingest"
	"moodfm/logger"
	"moodfm/model"

	"github.com/gorilla/mux"
)

// readUploadedFile buffers the "song" part of a multipart request. The
// second return reports whether the part was present at all; its absence is
// for the validator to judge, not a transport error.
func readUploadedFile(r *http.Request) ([]byte, *multipart.FileHeader, bool, error) {
	file, header, err := r.FormFile("song")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil, false, nil
		}
		return nil, nil, false, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, false, err
	}
	return data, header, true, nil
}

func (h *APIHandler) parseUpload(w http.ResponseWriter, r *http.Request) (*ingest.Input, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, ingest.NewValidationError("failed to parse multipart form: %v", err))
		return nil, false
	}

	data, header, hasFile, err := readUploadedFile(r)
	if err != nil {
		writeError(w, ingest.NewValidationError("failed to read uploaded file: %v", err))
		return nil, false
	}

	in := &ingest.Input{
		Title:      r.FormValue("title"),
		ArtistName: r.FormValue("artist_name"),
		AlbumName:  r.FormValue("album_name"),
		Genre:      r.FormValue("genre"),
		Mood:       r.FormValue("mood"),
		YouTubeURL: r.FormValue("youtubeUrl"),
		HasFile:    hasFile,
		Data:       data,
	}
	if hasFile {
		in.FileName = header.Filename
		in.ContentType = header.Header.Get("Content-Type")
	}

	if raw := strings.TrimSpace(r.FormValue("duration")); raw != "" {
		duration, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, ingest.NewValidationError("invalid duration: %s", raw))
			return nil, false
		}
		in.Duration = duration
	}

	return in, true
}

// UploadSongHandler is the full ingestion endpoint: complete metadata plus
// an audio file, validated against the rich mood profile.
func (h *APIHandler) UploadSongHandler(w http.ResponseWriter, r *http.Request) {
	in, ok := h.parseUpload(w, r)
	if !ok {
		return
	}
	in.Variant = ingest.VariantFull
	in.Profile = model.ProfileRich

	result, err := h.pipeline.Ingest(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	h.songCache.Invalidate(r.Context(), result.Mood)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Song uploaded successfully!",
		"url":     result.URL,
		"mood":    result.Mood,
		"artist":  result.Artist,
		"album":   result.Album,
		"songId":  result.SongID,
	})
}

// UploadSimpleHandler is the lightweight ingestion endpoint: a mood plus
// either a file or a video URL, validated against the restricted mood
// profile. Missing metadata is filled with sensible fallbacks.
func (h *APIHandler) UploadSimpleHandler(w http.ResponseWriter, r *http.Request) {
	in, ok := h.parseUpload(w, r)
	if !ok {
		return
	}
	in.Variant = ingest.VariantSimple
	in.Profile = model.ProfileRestricted

	result, err := h.pipeline.Ingest(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	h.songCache.Invalidate(r.Context(), result.Mood)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Song uploaded successfully!",
		"url":     result.URL,
		"mood":    result.Mood,
		"song": map[string]any{
			"id":     result.SongID,
			"title":  result.Title,
			"mood":   result.Mood,
			"artist": result.Artist,
			"genre":  result.Genre,
			"url":    result.URL,
		},
	})
}

// DeleteSongHandler removes a song row and best-effort deletes its stored
// audio object.
func (h *APIHandler) DeleteSongHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	songID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		writeError(w, ingest.NewValidationError("invalid song id: %s", vars["id"]))
		return
	}

	result, err := h.deleter.DeleteSong(r.Context(), songID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.songCache.Invalidate(r.Context(), result.Song.Mood)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Song deleted successfully",
		"deletedSong": map[string]any{
			"id":     result.Song.ID,
			"title":  result.Song.Title,
			"artist": result.Song.Artist,
			"mood":   result.Song.Mood,
		},
		"storageDeleted": result.StorageDeleted,
	})
}

// GetSongsHandler lists every song with artist and album names, served from
// the cache when possible.
func (h *APIHandler) GetSongsHandler(w http.ResponseWriter, r *http.Request) {
	key := cache.AllSongsKey()
	if songs, ok := h.songCache.GetSongs(r.Context(), key); ok {
		writeJSON(w, http.StatusOK, songs)
		return
	}

	songs, err := h.songRepo.GetAllSongs()
	if err != nil {
		writeError(w, err)
		return
	}

	h.songCache.SetSongs(r.Context(), key, songs)
	writeJSON(w, http.StatusOK, songs)
}

// GetSongsByMoodHandler lists the songs stored under one mood.
func (h *APIHandler) GetSongsByMoodHandler(w http.ResponseWriter, r *http.Request) {
	mood := strings.ToLower(mux.Vars(r)["mood"])

	key := cache.MoodKey(mood)
	if songs, ok := h.songCache.GetSongs(r.Context(), key); ok {
		writeJSON(w, http.StatusOK, songs)
		return
	}

	songs, err := h.songRepo.GetSongsByMood(mood)
	if err != nil {
		writeError(w, err)
		return
	}

	h.songCache.SetSongs(r.Context(), key, songs)
	writeJSON(w, http.StatusOK, songs)
	logger.Debug("Served mood listing", logger.String("mood", mood), logger.Int("count", len(songs)))
}
