package models

import "time"

// MistakeEntry records a wrong answer for one item. The ledger keeps at
// most one entry per key; repeated misses bump Count and refresh LastSeen
// instead of adding rows.
type MistakeEntry struct {
	Key      string    `json:"key" db:"key"`
	Count    int       `json:"count" db:"count"`
	LastSeen time.Time `json:"last_seen" db:"last_seen"`
}
