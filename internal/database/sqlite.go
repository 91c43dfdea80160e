// Package database provides the embedded SQLite backend for the ledgers,
// selected with STORAGE_BACKEND=sqlite. The flat-file CSV store remains the
// default; this backend trades human-readable state files for cheap upserts.
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/nihongo/pkg/models"
)

// Store implements ledger.Store on an embedded SQLite database.
type Store struct {
	db *sqlx.DB
}

// Open connects to the database at path, creating the file and schema when
// needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.initializeSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initializeSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS mastered_vocab (
			level TEXT NOT NULL,
			key TEXT NOT NULL,
			mastered_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (level, key)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create mastered_vocab table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS mistakes (
			key TEXT PRIMARY KEY,
			count INTEGER NOT NULL,
			last_seen TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create mistakes table: %w", err)
	}
	return nil
}

// LoadProgress returns mastered keys grouped by level. The primary key
// already guarantees deduplication.
func (s *Store) LoadProgress() (map[string]map[string]struct{}, error) {
	var rows []struct {
		Level string `db:"level"`
		Key   string `db:"key"`
	}
	if err := s.db.Select(&rows, "SELECT level, key FROM mastered_vocab"); err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	mastered := make(map[string]map[string]struct{})
	for _, row := range rows {
		if mastered[row.Level] == nil {
			mastered[row.Level] = make(map[string]struct{})
		}
		mastered[row.Level][row.Key] = struct{}{}
	}
	return mastered, nil
}

// AddMastered records one mastered key; re-adding an existing key is a
// no-op.
func (s *Store) AddMastered(level, key string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO mastered_vocab (level, key) VALUES (?, ?)",
		level, key,
	)
	if err != nil {
		return fmt.Errorf("failed to add mastered key: %w", err)
	}
	return nil
}

// ResetProgress removes all mastered keys for every level.
func (s *Store) ResetProgress() error {
	if _, err := s.db.Exec("DELETE FROM mastered_vocab"); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	return nil
}

// LoadMistakes returns all mistake entries.
func (s *Store) LoadMistakes() ([]models.MistakeEntry, error) {
	var rows []struct {
		Key      string `db:"key"`
		Count    int    `db:"count"`
		LastSeen string `db:"last_seen"`
	}
	err := s.db.Select(&rows, "SELECT key, count, last_seen FROM mistakes")
	if err != nil {
		return nil, fmt.Errorf("failed to load mistakes: %w", err)
	}

	entries := make([]models.MistakeEntry, 0, len(rows))
	for _, row := range rows {
		lastSeen, err := time.Parse(time.RFC3339, row.LastSeen)
		if err != nil {
			// Row written by hand or by an older build; skip it.
			continue
		}
		entries = append(entries, models.MistakeEntry{
			Key:      row.Key,
			Count:    row.Count,
			LastSeen: lastSeen,
		})
	}
	return entries, nil
}

// UpsertMistake inserts or replaces the entry for its key.
func (s *Store) UpsertMistake(entry models.MistakeEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO mistakes (key, count, last_seen) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET count = excluded.count, last_seen = excluded.last_seen
	`, entry.Key, entry.Count, entry.LastSeen.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert mistake: %w", err)
	}
	return nil
}

// DeleteMistake removes the entry for key.
func (s *Store) DeleteMistake(key string) error {
	if _, err := s.db.Exec("DELETE FROM mistakes WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete mistake: %w", err)
	}
	return nil
}

// ResetMistakes removes all mistake entries.
func (s *Store) ResetMistakes() error {
	if _, err := s.db.Exec("DELETE FROM mistakes"); err != nil {
		return fmt.Errorf("failed to reset mistakes: %w", err)
	}
	return nil
}
