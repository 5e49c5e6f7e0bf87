package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertScript inserts or refreshes a script source keyed by its external
// identifier and returns the row id.
func (s *Store) UpsertScript(ctx context.Context, key, title, sheetURL string) (int64, error) {
	if key == "" {
		return 0, errors.New("script key is empty")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO scripts (script_key, title, sheet_url, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(script_key) DO UPDATE SET
             title = CASE WHEN excluded.title != '' THEN excluded.title ELSE scripts.title END,
             sheet_url = CASE WHEN excluded.sheet_url != '' THEN excluded.sheet_url ELSE scripts.sheet_url END,
             updated_at = excluded.updated_at`,
		key,
		title,
		sheetURL,
		now,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("upsert script: %w", err)
	}

	var id int64
	row := s.db.QueryRowContext(ctx, `SELECT id FROM scripts WHERE script_key = ?`, key)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("read script id: %w", err)
	}
	return id, nil
}

// ScriptByKey fetches one script by its external key, or nil when absent.
func (s *Store) ScriptByKey(ctx context.Context, key string) (*Script, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, script_key, title, sheet_url, created_at, updated_at FROM scripts WHERE script_key = ?`,
		key,
	)
	script, err := scanScript(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get script: %w", err)
	}
	return script, nil
}

// ListScripts returns all scripts ordered by key.
func (s *Store) ListScripts(ctx context.Context) ([]*Script, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, script_key, title, sheet_url, created_at, updated_at FROM scripts ORDER BY script_key`,
	)
	if err != nil {
		return nil, fmt.Errorf("list scripts: %w", err)
	}
	defer rows.Close()

	var scripts []*Script
	for rows.Next() {
		script, err := scanScript(rows)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, script)
	}
	return scripts, rows.Err()
}

// ScriptsWithURLs returns scripts that carry a fetchable sheet URL, ordered
// by key, optionally capped.
func (s *Store) ScriptsWithURLs(ctx context.Context, limit int) ([]*Script, error) {
	query := `SELECT id, script_key, title, sheet_url, created_at, updated_at
              FROM scripts WHERE sheet_url IS NOT NULL AND sheet_url != '' ORDER BY script_key`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scripts with urls: %w", err)
	}
	defer rows.Close()

	var scripts []*Script
	for rows.Next() {
		script, err := scanScript(rows)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, script)
	}
	return scripts, rows.Err()
}

func scanScript(scanner interface{ Scan(dest ...any) error }) (*Script, error) {
	var (
		id         int64
		key        string
		title      sql.NullString
		sheetURL   sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&id, &key, &title, &sheetURL, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	script := &Script{
		ID:       id,
		Key:      key,
		Title:    title.String,
		SheetURL: sheetURL.String,
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		script.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		script.UpdatedAt = updated
	}
	return script, nil
}
