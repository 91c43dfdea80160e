package ledger

import (
	"fmt"

	"go.uber.org/zap"
)

// Progress is the mastered-vocabulary ledger. A key is mastered once the
// learner has answered it correctly at least once; the set only grows until
// a full reset.
type Progress struct {
	store    Store
	log      *zap.Logger
	mastered map[string]map[string]struct{} // level -> keys
}

// NewProgress loads persisted progress from the store.
func NewProgress(store Store, log *zap.Logger) (*Progress, error) {
	mastered, err := store.LoadProgress()
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	if mastered == nil {
		mastered = make(map[string]map[string]struct{})
	}
	return &Progress{store: store, log: log, mastered: mastered}, nil
}

// MarkMastered records a correct answer for key at the given level. Marking
// an already-mastered key is a no-op so a key is never counted twice. When
// the durable write fails the in-memory set keeps the key and the error is
// returned so the caller can warn the user.
func (p *Progress) MarkMastered(level, key string) error {
	set, ok := p.mastered[level]
	if !ok {
		set = make(map[string]struct{})
		p.mastered[level] = set
	}
	if _, exists := set[key]; exists {
		return nil
	}
	set[key] = struct{}{}

	if err := p.store.AddMastered(level, key); err != nil {
		p.log.Warn("failed to persist mastered key",
			zap.String("level", level), zap.Error(err))
		return fmt.Errorf("failed to persist progress: %w", err)
	}
	return nil
}

// IsMastered reports whether key has been mastered at the given level.
func (p *Progress) IsMastered(level, key string) bool {
	_, ok := p.mastered[level][key]
	return ok
}

// Mastered returns the set of mastered keys for a level. The map is shared;
// callers must not mutate it.
func (p *Progress) Mastered(level string) map[string]struct{} {
	return p.mastered[level]
}

// Count returns how many keys are mastered at the given level.
func (p *Progress) Count(level string) int {
	return len(p.mastered[level])
}

// Reset clears all progress for every level, in memory and in the store.
func (p *Progress) Reset() error {
	p.mastered = make(map[string]map[string]struct{})
	if err := p.store.ResetProgress(); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	return nil
}
