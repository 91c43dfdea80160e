package models

import "strings"

// Levels lists the JLPT proficiency levels, easiest first.
var Levels = []string{"N5", "N4", "N3", "N2", "N1"}

// VocabularyRecord represents one leveled vocabulary entry. Records are
// immutable once loaded; a record is identified by its (Kanji, Kana) pair
// within a level.
type VocabularyRecord struct {
	Level   string `json:"level" db:"level"`
	Kanji   string `json:"kanji" db:"kanji"`
	Kana    string `json:"kana" db:"kana"`
	Meaning string `json:"meaning" db:"meaning"`
}

// Key returns the identity of the record used by the ledgers.
func (v VocabularyRecord) Key() string {
	return v.Kanji + "\t" + v.Kana
}

// SplitKey breaks a vocabulary key back into its kanji and kana parts.
// Character keys have no separator and come back with an empty kana.
func SplitKey(key string) (kanji, kana string) {
	parts := strings.SplitN(key, "\t", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

// LevelTable is the ordered vocabulary for one JLPT level, read-only after
// loading.
type LevelTable []VocabularyRecord
