package memory

import (
	"context"

	"github.com/rpggio/v2c/internal/domain/history"
)

// HistoryRepository implements history.Repository in memory.
type HistoryRepository struct {
	db *DB
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Append adds entry to the end of the project's log.
func (r *HistoryRepository) Append(_ context.Context, projectID string, entry *history.Entry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.history[projectID] = append(r.db.history[projectID], *entry)
	return nil
}

// Count returns the log length.
func (r *HistoryRepository) Count(_ context.Context, projectID string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.history[projectID]), nil
}

// Range copies up to limit entries starting at offset.
func (r *HistoryRepository) Range(_ context.Context, projectID string, offset, limit int) ([]history.Entry, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	log := r.db.history[projectID]
	if offset < 0 {
		offset = 0
	}
	if offset >= len(log) || limit <= 0 {
		return []history.Entry{}, nil
	}
	end := offset + limit
	if end > len(log) {
		end = len(log)
	}
	out := make([]history.Entry, end-offset)
	copy(out, log[offset:end])
	return out, nil
}
