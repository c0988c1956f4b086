package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"moodfm/cache"
	"moodfm/config"
	"moodfm/core/ingest"
	"moodfm/logger"
	"moodfm/repository"
)

// APIHandler holds the request handlers and their collaborators.
type APIHandler struct {
	pipeline   *ingest.Pipeline
	deleter    *ingest.Deleter
	artistRepo repository.ArtistRepository
	albumRepo  repository.AlbumRepository
	songRepo   repository.SongRepository
	songCache  *cache.SongCache
	cfg        *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	pipeline *ingest.Pipeline,
	deleter *ingest.Deleter,
	artistRepo repository.ArtistRepository,
	albumRepo repository.AlbumRepository,
	songRepo repository.SongRepository,
	songCache *cache.SongCache,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		pipeline:   pipeline,
		deleter:    deleter,
		artistRepo: artistRepo,
		albumRepo:  albumRepo,
		songRepo:   songRepo,
		songCache:  songCache,
		cfg:        cfg,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode JSON response", logger.ErrorField(err))
	}
}

// writeError maps the pipeline's error taxonomy to HTTP statuses. Taxonomy
// messages are written as-is; anything else gets a generic body so driver
// and network detail stays in the log.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	var (
		validationErr  *ingest.ValidationError
		notFoundErr    *ingest.NotFoundError
		acquisitionErr *ingest.AcquisitionError
		uploadErr      *ingest.UploadError
		persistErr     *ingest.PersistenceError
	)
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
	case errors.As(err, &acquisitionErr), errors.As(err, &uploadErr), errors.As(err, &persistErr):
		// caller-safe messages, causes stay wrapped
	default:
		message = "internal server error"
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", logger.ErrorField(err))
	}

	writeJSON(w, status, map[string]string{"error": message})
}

// HealthHandler reports that the API is up and lists the main endpoints.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "moodfm API is running!",
		"endpoints": map[string]string{
			"upload":       "POST /api/upload",
			"uploadSimple": "POST /api/upload-simple",
			"songs":        "GET /api/songs",
			"songsByMood":  "GET /api/songs/mood/{mood}",
			"deleteSong":   "DELETE /api/songs/{id}",
			"artists":      "GET /api/artists",
			"albums":       "GET /api/albums",
		},
	})
}

// TestUploadHandler echoes back what the multipart parser received, without
// storing anything. Handy for debugging client form encoding.
func (h *APIHandler) TestUploadHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to parse multipart form"})
		return
	}

	file, header, err := r.FormFile("song")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No file received in test"})
		return
	}
	defer file.Close()

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Test upload successful!",
		"filename": header.Filename,
		"size":     header.Size,
		"type":     header.Header.Get("Content-Type"),
	})
}
