package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/v2c/internal/domain/project"
	"github.com/rpggio/v2c/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project and any files it already carries.
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (id, name, language, readme, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, proj.ID, proj.Name, proj.Language, proj.Readme, proj.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	for _, name := range proj.FileOrder {
		if err := putFile(ctx, tx, proj.ID, name, proj.Files[name]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Get retrieves a project with its files in insertion order
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	var proj project.Project
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, language, readme, created_at
		FROM projects
		WHERE id = ?
	`, id).Scan(
		&proj.ID,
		&proj.Name,
		&proj.Language,
		&proj.Readme,
		&proj.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT filename, content, language, created_at
		FROM project_files
		WHERE project_id = ?
		ORDER BY id ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get project files: %w", err)
	}
	defer rows.Close()

	proj.Files = map[string]project.FileRecord{}
	proj.FileOrder = []string{}
	for rows.Next() {
		var name string
		var rec project.FileRecord
		if err := rows.Scan(&name, &rec.Content, &rec.Language, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project file: %w", err)
		}
		proj.PutFile(name, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file rows: %w", err)
	}

	return &proj, nil
}

// List returns all projects with summary information, newest first
func (r *ProjectRepository) List(ctx context.Context) ([]project.ProjectSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			p.id,
			p.name,
			p.language,
			p.created_at,
			COUNT(f.id) AS file_count
		FROM projects p
		LEFT JOIN project_files f ON f.project_id = p.id
		GROUP BY p.id, p.name, p.language, p.created_at
		ORDER BY p.created_at DESC, p.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	summaries := []project.ProjectSummary{}
	for rows.Next() {
		var summary project.ProjectSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Language,
			&summary.CreatedAt,
			&summary.FileCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}

// PutFile inserts or overwrites a file. Overwrites keep the original row so
// display order is unchanged.
func (r *ProjectRepository) PutFile(ctx context.Context, projectID, filename string, rec project.FileRecord) error {
	return putFile(ctx, r.db, projectID, filename, rec)
}

// DeleteFile removes a file record. A missing file is not an error.
func (r *ProjectRepository) DeleteFile(ctx context.Context, projectID, filename string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM project_files WHERE project_id = ? AND filename = ?`, projectID, filename)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// SetReadme replaces the project's README text.
func (r *ProjectRepository) SetReadme(ctx context.Context, projectID, readme string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE projects SET readme = ? WHERE id = ?`, readme, projectID)
	if err != nil {
		return fmt.Errorf("failed to set readme: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putFile(ctx context.Context, db execer, projectID, filename string, rec project.FileRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO project_files (project_id, filename, content, language, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (project_id, filename) DO UPDATE SET
			content = excluded.content,
			language = excluded.language,
			created_at = excluded.created_at
	`, projectID, filename, rec.Content, rec.Language, createdAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to put file: %w", err)
	}
	return nil
}
