package repository

import (
	"database/sql"
	"fmt"

	"moodfm/model"
)

// AlbumRepository defines the interface for album data operations.
type AlbumRepository interface {
	GetAllAlbums() ([]*model.AlbumWithArtist, error)
	SearchAlbums(query string, limit int) ([]*model.Album, error)
	CreateAlbum(title string, artistID int64, releaseYear *int64) (int64, error)
	ResolveAlbumWithTx(tx *sql.Tx, title string, artistID int64) (int64, error)
}

// mysqlAlbumRepository implements AlbumRepository for MySQL.
type mysqlAlbumRepository struct {
	DB *sql.DB
}

// NewMySQLAlbumRepository creates a new instance of mysqlAlbumRepository.
func NewMySQLAlbumRepository(db *sql.DB) AlbumRepository {
	return &mysqlAlbumRepository{DB: db}
}

// GetAllAlbums retrieves all albums joined with their artist names.
func (r *mysqlAlbumRepository) GetAllAlbums() ([]*model.AlbumWithArtist, error) {
	query := `
		SELECT al.id, al.title, al.artist_id, al.release_year, al.created_at, ar.name
		FROM albums al
		JOIN artists ar ON al.artist_id = ar.id
		ORDER BY al.title`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	defer rows.Close()

	albums := make([]*model.AlbumWithArtist, 0)
	for rows.Next() {
		album := &model.AlbumWithArtist{}
		var releaseYear sql.NullInt64
		if err := rows.Scan(&album.ID, &album.Title, &album.ArtistID, &releaseYear, &album.CreatedAt, &album.ArtistName); err != nil {
			return nil, fmt.Errorf("failed to scan album in GetAllAlbums: %w", err)
		}
		if releaseYear.Valid {
			album.ReleaseYear = &releaseYear.Int64
		}
		albums = append(albums, album)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in GetAllAlbums: %w", err)
	}
	return albums, nil
}

// SearchAlbums retrieves albums whose title contains the query substring.
func (r *mysqlAlbumRepository) SearchAlbums(query string, limit int) ([]*model.Album, error) {
	rows, err := r.DB.Query(
		`SELECT id, title, artist_id, release_year, created_at FROM albums WHERE title LIKE ? LIMIT ?`,
		"%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search albums: %w", err)
	}
	defer rows.Close()

	albums := make([]*model.Album, 0)
	for rows.Next() {
		album := &model.Album{}
		var releaseYear sql.NullInt64
		if err := rows.Scan(&album.ID, &album.Title, &album.ArtistID, &releaseYear, &album.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan album in SearchAlbums: %w", err)
		}
		if releaseYear.Valid {
			album.ReleaseYear = &releaseYear.Int64
		}
		albums = append(albums, album)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in SearchAlbums: %w", err)
	}
	return albums, nil
}

// CreateAlbum inserts a new album outside any ingestion transaction. A nil
// releaseYear inserts NULL.
func (r *mysqlAlbumRepository) CreateAlbum(title string, artistID int64, releaseYear *int64) (int64, error) {
	res, err := r.DB.Exec(
		`INSERT INTO albums (title, artist_id, release_year) VALUES (?, ?, ?)`,
		title, artistID, releaseYear)
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreateAlbum: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreateAlbum: %w", err)
	}
	return id, nil
}

// ResolveAlbumWithTx finds or creates an album by (title, artist) inside an
// open transaction, using the same upsert form as artist resolution against
// the unique key on (title, artist_id). Callers skip this entirely for an
// empty title; an album row is never created from a blank name.
func (r *mysqlAlbumRepository) ResolveAlbumWithTx(tx *sql.Tx, title string, artistID int64) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO albums (title, artist_id) VALUES (?, ?) ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`,
		title, artistID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve album %q for artist %d: %w", title, artistID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get album ID for %q: %w", title, err)
	}
	return id, nil
}
