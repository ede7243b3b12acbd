package history

// Package history persists download outcomes in SQLite. Recording is
// best-effort observability: a failed write must never fail the download it
// describes, so callers log and discard errors from Add.

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Record is one download outcome.
type Record struct {
	ID         int64     `json:"id"`
	URL        string    `json:"url"`
	Kind       string    `json:"kind"`
	Quality    string    `json:"quality"`
	Status     string    `json:"status"`
	SizeBytes  int64     `json:"size_bytes"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// KindCount is a per-kind aggregate.
type KindCount struct {
	Kind  string `json:"kind"`
	Count int64  `json:"count"`
}

// Store wraps the SQLite database holding download history.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs migrations. Use
// ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS downloads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL,
			kind TEXT NOT NULL,
			quality TEXT,
			status TEXT NOT NULL,
			size_bytes INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_downloads_created_at ON downloads(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_downloads_kind ON downloads(kind)`,
	}

	for i, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}

// Add inserts one outcome record.
func (s *Store) Add(rec *Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	query := `INSERT INTO downloads (url, kind, quality, status, size_bytes, duration_ms, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.Exec(query, rec.URL, rec.Kind, rec.Quality, rec.Status, rec.SizeBytes, rec.DurationMS, rec.Error, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record download: %w", err)
	}
	rec.ID, _ = res.LastInsertId()
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, url, kind, quality, status, size_bytes, duration_ms, COALESCE(error, ''), created_at
		FROM downloads ORDER BY id DESC LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.URL, &rec.Kind, &rec.Quality, &rec.Status,
			&rec.SizeBytes, &rec.DurationMS, &rec.Error, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountByKind returns download counts grouped by media kind.
func (s *Store) CountByKind() ([]KindCount, error) {
	rows, err := s.db.Query(`SELECT kind, COUNT(*) FROM downloads GROUP BY kind ORDER BY kind`)
	if err != nil {
		return nil, fmt.Errorf("failed to count downloads: %w", err)
	}
	defer rows.Close()

	var counts []KindCount
	for rows.Next() {
		var kc KindCount
		if err := rows.Scan(&kc.Kind, &kc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts = append(counts, kc)
	}
	return counts, rows.Err()
}
