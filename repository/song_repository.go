package repository

import (
	"database/sql"
	"fmt"
	"time"

	"moodfm/model"
)

// SongRepository defines the interface for song data operations. The WithTx
// variants run inside a transaction owned by the caller; the ingestion and
// deletion workflows control begin/commit/rollback themselves.
type SongRepository interface {
	BeginTx() (*sql.Tx, error)
	CommitTx(tx *sql.Tx) error
	RollbackTx(tx *sql.Tx)
	CreateSongWithTx(tx *sql.Tx, song *model.Song) (int64, error)
	DeleteSongWithTx(tx *sql.Tx, songID int64) error
	GetSongWithNames(songID int64) (*model.SongWithNames, error)
	GetAllSongs() ([]*model.SongWithNames, error)
	GetSongsByMood(mood string) ([]*model.SongWithNames, error)
}

// mysqlSongRepository implements SongRepository for MySQL.
type mysqlSongRepository struct {
	DB *sql.DB
}

// NewMySQLSongRepository creates a new instance of mysqlSongRepository.
func NewMySQLSongRepository(db *sql.DB) SongRepository {
	return &mysqlSongRepository{DB: db}
}

// BeginTx starts a new transaction.
func (r *mysqlSongRepository) BeginTx() (*sql.Tx, error) {
	return r.DB.Begin()
}

// CommitTx commits the transaction.
func (r *mysqlSongRepository) CommitTx(tx *sql.Tx) error {
	return tx.Commit()
}

// RollbackTx rolls back the transaction.
func (r *mysqlSongRepository) RollbackTx(tx *sql.Tx) {
	if tx != nil {
		tx.Rollback()
	}
}

// CreateSongWithTx inserts a new song row inside an open transaction.
func (r *mysqlSongRepository) CreateSongWithTx(tx *sql.Tx, song *model.Song) (int64, error) {
	query := `INSERT INTO songs (title, artist_id, album_id, genre, duration, mood, url, object_id, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement for CreateSongWithTx: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(song.Title, song.ArtistID, song.AlbumID, song.Genre, song.Duration,
		song.Mood, song.URL, song.ObjectID, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreateSongWithTx: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreateSongWithTx: %w", err)
	}
	return id, nil
}

// DeleteSongWithTx deletes a song row inside an open transaction.
func (r *mysqlSongRepository) DeleteSongWithTx(tx *sql.Tx, songID int64) error {
	if _, err := tx.Exec(`DELETE FROM songs WHERE id = ?`, songID); err != nil {
		return fmt.Errorf("failed to delete song %d: %w", songID, err)
	}
	return nil
}

const songWithNamesSelect = `
	SELECT s.id, s.title, s.artist_id, s.album_id, s.genre, s.duration, s.mood,
	       s.url, s.object_id, s.created_at, ar.name, al.title
	FROM songs s
	JOIN artists ar ON s.artist_id = ar.id
	LEFT JOIN albums al ON s.album_id = al.id`

func scanSongWithNames(row interface{ Scan(...any) error }) (*model.SongWithNames, error) {
	song := &model.SongWithNames{}
	var albumID sql.NullInt64
	var albumTitle sql.NullString
	err := row.Scan(&song.ID, &song.Title, &song.ArtistID, &albumID, &song.Genre,
		&song.Duration, &song.Mood, &song.URL, &song.ObjectID, &song.CreatedAt,
		&song.Artist, &albumTitle)
	if err != nil {
		return nil, err
	}
	if albumID.Valid {
		song.AlbumID = &albumID.Int64
	}
	if albumTitle.Valid {
		song.Album = &albumTitle.String
	}
	return song, nil
}

// GetSongWithNames retrieves a song joined with its artist name and optional
// album title. Returns (nil, nil) if the song does not exist.
func (r *mysqlSongRepository) GetSongWithNames(songID int64) (*model.SongWithNames, error) {
	row := r.DB.QueryRow(songWithNamesSelect+` WHERE s.id = ?`, songID)
	song, err := scanSongWithNames(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Song not found
		}
		return nil, fmt.Errorf("failed to scan song by ID %d: %w", songID, err)
	}
	return song, nil
}

// GetAllSongs retrieves every song with artist and album names.
func (r *mysqlSongRepository) GetAllSongs() ([]*model.SongWithNames, error) {
	rows, err := r.DB.Query(songWithNamesSelect + ` ORDER BY s.title`)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	return collectSongs(rows)
}

// GetSongsByMood retrieves all songs stored under the given mood.
func (r *mysqlSongRepository) GetSongsByMood(mood string) ([]*model.SongWithNames, error) {
	rows, err := r.DB.Query(songWithNamesSelect+` WHERE s.mood = ? ORDER BY s.title`, mood)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs by mood %s: %w", mood, err)
	}
	defer rows.Close()

	return collectSongs(rows)
}

func collectSongs(rows *sql.Rows) ([]*model.SongWithNames, error) {
	songs := make([]*model.SongWithNames, 0)
	for rows.Next() {
		song, err := scanSongWithNames(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song row: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during song rows iteration: %w", err)
	}
	return songs, nil
}
