package history

import (
	"context"

	"github.com/rpggio/v2c/internal/domain/project"
)

// Repository provides append-only storage for per-project history.
// Range returns entries in append order starting at offset.
type Repository interface {
	Append(ctx context.Context, projectID string, entry *Entry) error
	Count(ctx context.Context, projectID string) (int, error)
	Range(ctx context.Context, projectID string, offset, limit int) ([]Entry, error)
}

// ProjectStore is the slice of project persistence rollback needs.
type ProjectStore interface {
	Get(ctx context.Context, id string) (*project.Project, error)
	PutFile(ctx context.Context, projectID, filename string, rec project.FileRecord) error
}
