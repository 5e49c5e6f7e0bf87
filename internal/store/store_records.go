package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ReplaceRecords atomically replaces every stored record for one script with
// the provided set. Delete-then-insert inside a single transaction keeps the
// operation idempotent: re-running a pipeline never duplicates rows and a
// failure leaves the previous record set intact.
func (s *Store) ReplaceRecords(ctx context.Context, scriptKey string, records []Record) error {
	for _, record := range records {
		if strings.TrimSpace(record.Character) == "" || strings.TrimSpace(record.Dialogue) == "" {
			return fmt.Errorf("record at row %d has a blank field", record.RowIndex)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var scriptID int64
	row := tx.QueryRowContext(ctx, `SELECT id FROM scripts WHERE script_key = ?`, scriptKey)
	if err := row.Scan(&scriptID); err != nil {
		return fmt.Errorf("resolve script %q: %w", scriptKey, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM dialogue WHERE script_id = ?`, scriptID); err != nil {
		return fmt.Errorf("clear records for %q: %w", scriptKey, err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	stmt, err := tx.PrepareContext(
		ctx,
		`INSERT INTO dialogue (script_id, row_index, character_name, dialogue_text, is_instruction, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		if _, err := stmt.ExecContext(
			ctx,
			scriptID,
			record.RowIndex,
			record.Character,
			record.Dialogue,
			boolToInt(record.Instruction),
			now,
		); err != nil {
			return fmt.Errorf("insert row %d for %q: %w", record.RowIndex, scriptKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace for %q: %w", scriptKey, err)
	}
	return nil
}

// RecordsForScript returns the stored records for one script in row order.
func (s *Store) RecordsForScript(ctx context.Context, scriptKey string) ([]Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT d.row_index, d.character_name, d.dialogue_text, d.is_instruction
         FROM dialogue d JOIN scripts s ON s.id = d.script_id
         WHERE s.script_key = ? ORDER BY d.row_index`,
		scriptKey,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			record Record
			flag   int
		)
		if err := rows.Scan(&record.RowIndex, &record.Character, &record.Dialogue, &flag); err != nil {
			return nil, err
		}
		record.Instruction = flag != 0
		records = append(records, record)
	}
	return records, rows.Err()
}

// SampleFilter narrows SampleRecords output. Zero values mean "no filter".
type SampleFilter struct {
	Character   string
	Contains    string
	Instruction *bool
	Limit       int
}

// SampleRecords returns stored rows matching the filter, joined with their
// script keys, in (script, row) order.
func (s *Store) SampleRecords(ctx context.Context, filter SampleFilter) ([]Sample, error) {
	query := `SELECT s.script_key, d.row_index, d.character_name, d.dialogue_text, d.is_instruction
              FROM dialogue d JOIN scripts s ON s.id = d.script_id`
	var (
		clauses []string
		args    []any
	)
	if filter.Character != "" {
		clauses = append(clauses, "d.character_name = ?")
		args = append(args, filter.Character)
	}
	if filter.Contains != "" {
		clauses = append(clauses, "d.dialogue_text LIKE ?")
		args = append(args, "%"+filter.Contains+"%")
	}
	if filter.Instruction != nil {
		clauses = append(clauses, "d.is_instruction = ?")
		args = append(args, boolToInt(*filter.Instruction))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY s.script_key, d.row_index"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sample records: %w", err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var (
			sample Sample
			flag   int
		)
		if err := rows.Scan(&sample.ScriptKey, &sample.RowIndex, &sample.Character, &sample.Dialogue, &flag); err != nil {
			return nil, err
		}
		sample.Instruction = flag != 0
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

// FlagCounts tallies stored records by classification flag.
func (s *Store) FlagCounts(ctx context.Context) (FlagCounts, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT is_instruction, COUNT(1) FROM dialogue GROUP BY is_instruction`)
	if err != nil {
		return FlagCounts{}, fmt.Errorf("flag counts: %w", err)
	}
	defer rows.Close()

	var counts FlagCounts
	for rows.Next() {
		var (
			flag  int
			count int64
		)
		if err := rows.Scan(&flag, &count); err != nil {
			return FlagCounts{}, err
		}
		if flag != 0 {
			counts.Instruction = count
		} else {
			counts.Dialogue = count
		}
	}
	return counts, rows.Err()
}

// CharacterCounts returns dialogue tallies per character, busiest first.
// Instructions are excluded; they are cues, not speakers.
func (s *Store) CharacterCounts(ctx context.Context, limit int) ([]CharacterCount, error) {
	query := `SELECT character_name, COUNT(1) AS n FROM dialogue
              WHERE is_instruction = 0 GROUP BY character_name ORDER BY n DESC, character_name`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("character counts: %w", err)
	}
	defer rows.Close()

	var counts []CharacterCount
	for rows.Next() {
		var count CharacterCount
		if err := rows.Scan(&count.Character, &count.Count); err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}
	return counts, rows.Err()
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
