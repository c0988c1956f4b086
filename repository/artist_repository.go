package repository

import (
	"database/sql"
	"fmt"

	"moodfm/model"
)

// ArtistRepository defines the interface for artist data operations.
type ArtistRepository interface {
	GetAllArtists() ([]*model.Artist, error)
	GetArtistByName(name string) (*model.Artist, error)
	SearchArtists(query string, limit int) ([]*model.Artist, error)
	CreateArtist(name string) (int64, error)
	ResolveArtistWithTx(tx *sql.Tx, name string) (int64, error)
}

// mysqlArtistRepository implements ArtistRepository for MySQL.
type mysqlArtistRepository struct {
	DB *sql.DB
}

// NewMySQLArtistRepository creates a new instance of mysqlArtistRepository.
func NewMySQLArtistRepository(db *sql.DB) ArtistRepository {
	return &mysqlArtistRepository{DB: db}
}

// GetAllArtists retrieves all artists ordered by name.
func (r *mysqlArtistRepository) GetAllArtists() ([]*model.Artist, error) {
	query := `SELECT id, name, created_at FROM artists ORDER BY name`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	artists := make([]*model.Artist, 0)
	for rows.Next() {
		artist := &model.Artist{}
		if err := rows.Scan(&artist.ID, &artist.Name, &artist.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artist in GetAllArtists: %w", err)
		}
		artists = append(artists, artist)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in GetAllArtists: %w", err)
	}
	return artists, nil
}

// GetArtistByName retrieves an artist by exact name match.
func (r *mysqlArtistRepository) GetArtistByName(name string) (*model.Artist, error) {
	query := `SELECT id, name, created_at FROM artists WHERE name = ?`
	row := r.DB.QueryRow(query, name)

	artist := &model.Artist{}
	err := row.Scan(&artist.ID, &artist.Name, &artist.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Artist not found
		}
		return nil, fmt.Errorf("failed to scan artist by name %s: %w", name, err)
	}
	return artist, nil
}

// SearchArtists retrieves artists whose name contains the query substring.
// Fuzzy matching is only for the search endpoint; ingestion resolution uses
// exact matches.
func (r *mysqlArtistRepository) SearchArtists(query string, limit int) ([]*model.Artist, error) {
	rows, err := r.DB.Query(
		`SELECT id, name, created_at FROM artists WHERE name LIKE ? LIMIT ?`,
		"%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search artists: %w", err)
	}
	defer rows.Close()

	artists := make([]*model.Artist, 0)
	for rows.Next() {
		artist := &model.Artist{}
		if err := rows.Scan(&artist.ID, &artist.Name, &artist.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artist in SearchArtists: %w", err)
		}
		artists = append(artists, artist)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in SearchArtists: %w", err)
	}
	return artists, nil
}

// CreateArtist inserts a new artist outside any ingestion transaction.
func (r *mysqlArtistRepository) CreateArtist(name string) (int64, error) {
	res, err := r.DB.Exec(`INSERT INTO artists (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreateArtist: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreateArtist: %w", err)
	}
	return id, nil
}

// ResolveArtistWithTx finds or creates an artist by exact name inside an open
// transaction. The insert-or-return-existing form leans on the unique key on
// artists(name), so two concurrent ingestions for a brand-new artist converge
// on one row instead of racing a lookup against an insert.
func (r *mysqlArtistRepository) ResolveArtistWithTx(tx *sql.Tx, name string) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO artists (name) VALUES (?) ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`,
		name)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve artist %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get artist ID for %q: %w", name, err)
	}
	return id, nil
}
