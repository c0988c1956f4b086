package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"moodfm/core/ingest"
)

// GetArtistsHandler lists all artists ordered by name.
func (h *APIHandler) GetArtistsHandler(w http.ResponseWriter, r *http.Request) {
	artists, err := h.artistRepo.GetAllArtists()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

// SearchArtistsHandler does a substring search over artist names.
func (h *APIHandler) SearchArtistsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	artists, err := h.artistRepo.SearchArtists(q, 10)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

// CreateArtistHandler inserts an artist directly, outside the pipeline.
func (h *APIHandler) CreateArtistHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, ingest.NewValidationError("invalid JSON body"))
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, ingest.NewValidationError("artist name is required"))
		return
	}

	id, err := h.artistRepo.CreateArtist(body.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"name":    body.Name,
		"message": "Artist created successfully",
	})
}

// GetAlbumsHandler lists all albums joined with their artist names.
func (h *APIHandler) GetAlbumsHandler(w http.ResponseWriter, r *http.Request) {
	albums, err := h.albumRepo.GetAllAlbums()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

// SearchAlbumsHandler does a substring search over album titles.
func (h *APIHandler) SearchAlbumsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	albums, err := h.albumRepo.SearchAlbums(q, 10)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

// CreateAlbumHandler inserts an album directly, outside the pipeline.
func (h *APIHandler) CreateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       string `json:"title"`
		ArtistID    int64  `json:"artist_id"`
		ReleaseYear *int64 `json:"release_year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, ingest.NewValidationError("invalid JSON body"))
		return
	}
	if strings.TrimSpace(body.Title) == "" || body.ArtistID == 0 {
		writeError(w, ingest.NewValidationError("title and artist_id are required"))
		return
	}

	id, err := h.albumRepo.CreateAlbum(body.Title, body.ArtistID, body.ReleaseYear)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"message": "Album created successfully",
	})
}
