package models

// CharacterRecord represents one kana/kanji character and the reading the
// learner is expected to pick. Immutable once loaded.
type CharacterRecord struct {
	Character string `json:"character" db:"character"`
	Reading   string `json:"reading" db:"reading"`
}

// Key returns the identity of the record used by the mistake ledger.
func (c CharacterRecord) Key() string {
	return c.Character
}
