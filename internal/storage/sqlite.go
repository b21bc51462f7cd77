// Package storage provides SQLite-based persistence for crop history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for crop history.
type Store struct {
	db *sql.DB
}

// CropEntry represents one saved crop.
type CropEntry struct {
	ID        int64
	Source    string          // Image path or "pattern:<id>"
	Rect      image.Rectangle // Crop rectangle in source pixels
	Scale     float64         // Zoom factor at the time of the crop
	Output    string          // Written file, empty if the crop was not saved
	CreatedAt time.Time
}

// SourceStats contains aggregated statistics for one source image.
type SourceStats struct {
	Source   string
	Crops    int
	AvgScale float64
	LastCrop time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS crops (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			x0 INTEGER NOT NULL,
			y0 INTEGER NOT NULL,
			x1 INTEGER NOT NULL,
			y1 INTEGER NOT NULL,
			scale REAL NOT NULL DEFAULT 1,
			output TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_crops_source ON crops(source);
		CREATE INDEX IF NOT EXISTS idx_crops_created ON crops(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveCrop records a crop. Returns the ID of the inserted record.
func (s *Store) SaveCrop(e CropEntry) (int64, error) {
	if e.Source == "" {
		return 0, errors.New("storage: crop source is required")
	}
	result, err := s.db.Exec(
		`INSERT INTO crops (source, x0, y0, x1, y1, scale, output)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Source, e.Rect.Min.X, e.Rect.Min.Y, e.Rect.Max.X, e.Rect.Max.Y, e.Scale, e.Output,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save crop: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentCrops retrieves the most recent crops, newest first.
func (s *Store) RecentCrops(limit int) ([]CropEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, source, x0, y0, x1, y1, scale, output, created_at
		 FROM crops
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query crops: %w", err)
	}
	return scanCrops(rows)
}

// CropsBySource retrieves the crops taken from one source, newest first.
func (s *Store) CropsBySource(source string, limit int) ([]CropEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, source, x0, y0, x1, y1, scale, output, created_at
		 FROM crops
		 WHERE source = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		source, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query crops: %w", err)
	}
	return scanCrops(rows)
}

// LastCrop returns the most recent crop of source, or nil if there is none.
func (s *Store) LastCrop(source string) (*CropEntry, error) {
	entries, err := s.CropsBySource(source, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// ClearCrops deletes all crops of the given source.
func (s *Store) ClearCrops(source string) error {
	_, err := s.db.Exec("DELETE FROM crops WHERE source = ?", source)
	if err != nil {
		return fmt.Errorf("storage: cannot clear crops: %w", err)
	}
	return nil
}

// Stats retrieves aggregated statistics per source.
func (s *Store) Stats() (map[string]*SourceStats, error) {
	rows, err := s.db.Query(
		`SELECT source, COUNT(*), AVG(scale), MAX(created_at)
		 FROM crops
		 GROUP BY source`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get crop stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*SourceStats)
	for rows.Next() {
		var st SourceStats
		var last any
		if err := rows.Scan(&st.Source, &st.Crops, &st.AvgScale, &last); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastCrop = parseTime(last)
		stats[st.Source] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

func scanCrops(rows *sql.Rows) ([]CropEntry, error) {
	defer rows.Close()

	var entries []CropEntry
	for rows.Next() {
		var e CropEntry
		var createdAt any
		if err := rows.Scan(
			&e.ID,
			&e.Source,
			&e.Rect.Min.X,
			&e.Rect.Min.Y,
			&e.Rect.Max.X,
			&e.Rect.Max.Y,
			&e.Scale,
			&e.Output,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
