package store

import "time"

// Script is one production script source identified by a stable external key.
type Script struct {
	ID        int64
	Key       string
	Title     string
	SheetURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Record is one normalized character/dialogue row. Character and Dialogue
// are non-empty by the time a record reaches the store; RowIndex is the
// 0-based row in the source grid and doubles as the idempotent replace key.
type Record struct {
	RowIndex    int
	Character   string
	Dialogue    string
	Instruction bool
}

// Sample is a stored record joined with its script key, used by read-only
// reporting queries.
type Sample struct {
	ScriptKey   string
	RowIndex    int
	Character   string
	Dialogue    string
	Instruction bool
}

// FlagCounts aggregates stored records by classification.
type FlagCounts struct {
	Dialogue    int64
	Instruction int64
}

// Total returns the combined record count.
func (c FlagCounts) Total() int64 {
	return c.Dialogue + c.Instruction
}

// CharacterCount is the per-character dialogue tally.
type CharacterCount struct {
	Character string
	Count     int64
}
