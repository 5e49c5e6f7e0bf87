package store

import (
	"context"
	"fmt"

	"scriptdb/internal/classify"
	"scriptdb/internal/textrepair"
)

// Reclassify re-runs the classifier over every stored record and updates the
// rows whose flag changed, inside one transaction. It returns the number of
// rows touched. Because the classifier is pure, re-running the sweep is a
// no-op once the flags converge.
func (s *Store) Reclassify(ctx context.Context, classifier *classify.Classifier) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin reclassify tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT id, character_name, dialogue_text, is_instruction FROM dialogue`)
	if err != nil {
		return 0, fmt.Errorf("scan dialogue: %w", err)
	}

	type change struct {
		id   int64
		flag int
	}
	var changes []change
	for rows.Next() {
		var (
			id        int64
			character string
			dialogue  string
			flag      int
		)
		if err := rows.Scan(&id, &character, &dialogue, &flag); err != nil {
			rows.Close()
			return 0, err
		}
		want := boolToInt(classifier.Classify(character, dialogue))
		if want != flag {
			changes = append(changes, change{id: id, flag: want})
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	for _, c := range changes {
		if _, err := tx.ExecContext(ctx, `UPDATE dialogue SET is_instruction = ? WHERE id = ?`, c.flag, c.id); err != nil {
			return 0, fmt.Errorf("update flag for row %d: %w", c.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit reclassify: %w", err)
	}
	return int64(len(changes)), nil
}

// RenameCharacter rewrites one character name by exact match and returns the
// number of affected rows.
func (s *Store) RenameCharacter(ctx context.Context, old, replacement string) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE dialogue SET character_name = ? WHERE character_name = ?`,
		replacement,
		old,
	)
	if err != nil {
		return 0, fmt.Errorf("rename character: %w", err)
	}
	return res.RowsAffected()
}

// RepairCharacterNames applies the corruption table to every stored name in
// one transaction and returns the number of rows repaired.
func (s *Store) RepairCharacterNames(ctx context.Context, repairer *textrepair.Repairer) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin repair tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT DISTINCT character_name FROM dialogue`)
	if err != nil {
		return 0, fmt.Errorf("scan character names: %w", err)
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return 0, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	var repaired int64
	for _, name := range names {
		fixed := repairer.Repair(name)
		if fixed == name {
			continue
		}
		res, err := tx.ExecContext(ctx, `UPDATE dialogue SET character_name = ? WHERE character_name = ?`, fixed, name)
		if err != nil {
			return 0, fmt.Errorf("repair %q: %w", name, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		repaired += affected
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit repair: %w", err)
	}
	return repaired, nil
}

// SuspiciousCharacterNames lists stored names that still look corrupted after
// repair. These mark table gaps to investigate, never inputs for automatic
// fixing.
func (s *Store) SuspiciousCharacterNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT character_name FROM dialogue ORDER BY character_name`)
	if err != nil {
		return nil, fmt.Errorf("scan character names: %w", err)
	}
	defer rows.Close()

	var suspicious []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if textrepair.LooksCorrupted(name) {
			suspicious = append(suspicious, name)
		}
	}
	return suspicious, rows.Err()
}
