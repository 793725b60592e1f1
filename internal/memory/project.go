package memory

import (
	"context"
	"sort"

	"github.com/rpggio/v2c/internal/domain/project"
	"github.com/rpggio/v2c/internal/repository"
)

// ProjectRepository implements project.Repository in memory.
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create stores a copy of proj.
func (r *ProjectRepository) Create(_ context.Context, proj *project.Project) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.db.projects[proj.ID]; exists {
		return repository.ErrConflict
	}
	r.db.projects[proj.ID] = proj.Clone()
	return nil
}

// Get returns a copy of the project.
func (r *ProjectRepository) Get(_ context.Context, id string) (*project.Project, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	proj, ok := r.db.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return proj.Clone(), nil
}

// List returns summaries, newest first.
func (r *ProjectRepository) List(_ context.Context) ([]project.ProjectSummary, error) {
	r.db.mu.RLock()
	summaries := make([]project.ProjectSummary, 0, len(r.db.projects))
	for _, proj := range r.db.projects {
		summaries = append(summaries, proj.Summary())
	}
	r.db.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID > summaries[j].ID
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// PutFile inserts or overwrites a file record.
func (r *ProjectRepository) PutFile(_ context.Context, projectID, filename string, rec project.FileRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	proj, ok := r.db.projects[projectID]
	if !ok {
		return repository.ErrNotFound
	}
	proj.PutFile(filename, rec)
	return nil
}

// DeleteFile removes a file record. A missing file is not an error.
func (r *ProjectRepository) DeleteFile(_ context.Context, projectID, filename string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	proj, ok := r.db.projects[projectID]
	if !ok {
		return repository.ErrNotFound
	}
	proj.DeleteFile(filename)
	return nil
}

// SetReadme replaces the project's README text.
func (r *ProjectRepository) SetReadme(_ context.Context, projectID, readme string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	proj, ok := r.db.projects[projectID]
	if !ok {
		return repository.ErrNotFound
	}
	proj.Readme = readme
	return nil
}
