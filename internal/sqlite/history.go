package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/v2c/internal/domain/history"
)

// HistoryRepository implements history.Repository for SQLite
type HistoryRepository struct {
	db *DB
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Append inserts a new history entry
func (r *HistoryRepository) Append(ctx context.Context, projectID string, entry *history.Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO history_entries (project_id, action, filename, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, projectID, string(entry.Action), entry.Filename, entry.Content, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// Count returns the number of entries logged for a project
func (r *HistoryRepository) Count(ctx context.Context, projectID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM history_entries WHERE project_id = ?`, projectID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}

// Range returns up to limit entries in append order starting at offset
func (r *HistoryRepository) Range(ctx context.Context, projectID string, offset, limit int) ([]history.Entry, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return []history.Entry{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT action, filename, content, created_at
		FROM history_entries
		WHERE project_id = ?
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`, projectID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer rows.Close()

	entries := []history.Entry{}
	for rows.Next() {
		var entry history.Entry
		var action string
		if err := rows.Scan(&action, &entry.Filename, &entry.Content, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.Action = history.Action(action)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return entries, nil
}
