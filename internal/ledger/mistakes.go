package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/nihongo/pkg/models"
	"go.uber.org/zap"
)

// Mistakes is the wrong-answer ledger: one entry per key with a repeat
// count and the time of the latest miss.
type Mistakes struct {
	store   Store
	log     *zap.Logger
	entries map[string]models.MistakeEntry
}

// NewMistakes loads persisted mistakes from the store.
func NewMistakes(store Store, log *zap.Logger) (*Mistakes, error) {
	list, err := store.LoadMistakes()
	if err != nil {
		return nil, fmt.Errorf("failed to load mistakes: %w", err)
	}
	entries := make(map[string]models.MistakeEntry, len(list))
	for _, e := range list {
		entries[e.Key] = e
	}
	return &Mistakes{store: store, log: log, entries: entries}, nil
}

// Record logs a wrong answer for key at the given time. A repeated miss
// increments the count and refreshes LastSeen instead of adding a row. The
// in-memory entry is kept even when the durable write fails.
func (m *Mistakes) Record(key string, at time.Time) error {
	entry, ok := m.entries[key]
	if ok {
		entry.Count++
		entry.LastSeen = at
	} else {
		entry = models.MistakeEntry{Key: key, Count: 1, LastSeen: at}
	}
	m.entries[key] = entry

	if err := m.store.UpsertMistake(entry); err != nil {
		m.log.Warn("failed to persist mistake", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to persist mistake: %w", err)
	}
	return nil
}

// List returns all entries ordered most-recent-first by LastSeen, with ties
// broken by key so the order is stable.
func (m *Mistakes) List() []models.MistakeEntry {
	list := make([]models.MistakeEntry, 0, len(m.entries))
	for _, e := range m.entries {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].LastSeen.Equal(list[j].LastSeen) {
			return list[i].LastSeen.After(list[j].LastSeen)
		}
		return list[i].Key < list[j].Key
	})
	return list
}

// Len returns the number of distinct mistake entries.
func (m *Mistakes) Len() int {
	return len(m.entries)
}

// Clear removes the entry for key after a successful review answer.
// Clearing an absent key is a no-op.
func (m *Mistakes) Clear(key string) error {
	if _, ok := m.entries[key]; !ok {
		return nil
	}
	delete(m.entries, key)

	if err := m.store.DeleteMistake(key); err != nil {
		m.log.Warn("failed to persist mistake removal", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to persist mistake removal: %w", err)
	}
	return nil
}

// Reset clears all entries, in memory and in the store.
func (m *Mistakes) Reset() error {
	m.entries = make(map[string]models.MistakeEntry)
	if err := m.store.ResetMistakes(); err != nil {
		return fmt.Errorf("failed to reset mistakes: %w", err)
	}
	return nil
}
