// Package ledger tracks what the learner has mastered and what they keep
// getting wrong. Both ledgers hold their state in memory and push every
// mutation through a Store so progress survives abrupt termination.
package ledger

import "github.com/example/nihongo/pkg/models"

// Store persists the two ledgers. Implementations: the CSV flat-file store
// in this package and the SQLite store in internal/database.
type Store interface {
	// LoadProgress returns mastered keys grouped by level, deduplicated.
	LoadProgress() (map[string]map[string]struct{}, error)
	// AddMastered durably records one newly mastered key.
	AddMastered(level, key string) error
	// ResetProgress discards all persisted progress for every level.
	ResetProgress() error

	// LoadMistakes returns all persisted mistake entries, one per key.
	LoadMistakes() ([]models.MistakeEntry, error)
	// UpsertMistake inserts or replaces the entry for its key.
	UpsertMistake(entry models.MistakeEntry) error
	// DeleteMistake removes the entry for key, if present.
	DeleteMistake(key string) error
	// ResetMistakes discards all persisted mistakes.
	ResetMistakes() error
}
