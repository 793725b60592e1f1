package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/v2c/internal/domain/project"
	"github.com/rpggio/v2c/internal/lock"
	"github.com/rpggio/v2c/internal/repository"
)

// DefaultRecentLimit is the number of entries GetRecent returns by default.
const DefaultRecentLimit = 10

// Service handles history log operations.
type Service struct {
	repo      Repository
	projects  ProjectStore
	selection *project.Selection
	locks     *lock.Keyed
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new history service.
func NewService(repo Repository, projects ProjectStore, selection *project.Selection, locks *lock.Keyed, logger *slog.Logger) *Service {
	if selection == nil {
		selection = &project.Selection{}
	}
	if locks == nil {
		locks = lock.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:      repo,
		projects:  projects,
		selection: selection,
		locks:     locks,
		logger:    logger,
		now:       time.Now,
	}
}

// RollbackRequest selects a version to restore. Empty ProjectID means the
// current project. VersionIndex is absolute within the project's full log.
type RollbackRequest struct {
	ProjectID    string
	VersionIndex int
}

// Append pushes an entry to the end of a project's log, filling the
// timestamp and action if missing.
func (s *Service) Append(ctx context.Context, projectID string, entry *Entry) error {
	if entry == nil || strings.TrimSpace(projectID) == "" {
		return ErrInvalidInput
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	if entry.Action == "" {
		entry.Action = ActionAddFile
	}
	if err := s.repo.Append(ctx, projectID, entry); err != nil {
		return fmt.Errorf("appending history: %w", err)
	}
	return nil
}

// RecordAddFile appends an add_file snapshot. Callers already hold the
// project lock.
func (s *Service) RecordAddFile(ctx context.Context, projectID, filename, content string) error {
	return s.Append(ctx, projectID, &Entry{
		Action:   ActionAddFile,
		Filename: filename,
		Content:  content,
	})
}

// GetRecent returns the last limit entries in chronological order.
func (s *Service) GetRecent(ctx context.Context, projectID string, limit int) ([]Entry, error) {
	page, err := s.Recent(ctx, projectID, limit)
	if err != nil {
		return nil, err
	}
	return page.Entries, nil
}

// Recent is GetRecent plus the log position of the first returned entry.
func (s *Service) Recent(ctx context.Context, projectID string, limit int) (*Page, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if strings.TrimSpace(projectID) == "" {
		return &Page{Entries: []Entry{}}, nil
	}

	total, err := s.repo.Count(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("counting history: %w", err)
	}
	if total == 0 {
		return &Page{Entries: []Entry{}}, nil
	}

	offset := total - limit
	if offset < 0 {
		offset = 0
	}
	entries, err := s.repo.Range(ctx, projectID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return &Page{Offset: offset, Entries: entries}, nil
}

// Rollback restores a file to the content stored at VersionIndex. A file that
// no longer exists in the project is recreated from the snapshot.
func (s *Service) Rollback(ctx context.Context, req RollbackRequest) (*RollbackResult, error) {
	projectID := s.selection.Resolve(strings.TrimSpace(req.ProjectID))
	if projectID == "" {
		return nil, ErrHistoryNotFound
	}

	unlock := s.locks.Lock(projectID)
	defer unlock()

	total, err := s.repo.Count(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("counting history: %w", err)
	}
	if total == 0 {
		return nil, ErrHistoryNotFound
	}
	if req.VersionIndex < 0 || req.VersionIndex >= total {
		return nil, ErrInvalidVersion
	}

	entries, err := s.repo.Range(ctx, projectID, req.VersionIndex, 1)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrInvalidVersion
	}
	entry := entries[0]

	proj, err := s.projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}

	rec, exists := proj.Files[entry.Filename]
	if exists {
		rec.Content = entry.Content
	} else {
		rec = project.FileRecord{
			Content:   entry.Content,
			CreatedAt: s.now(),
			Language:  proj.Language,
		}
	}
	if err := s.projects.PutFile(ctx, projectID, entry.Filename, rec); err != nil {
		return nil, fmt.Errorf("restoring file: %w", err)
	}

	s.logger.Info("rolled back file",
		"project_id", projectID,
		"version_index", req.VersionIndex,
		"filename", entry.Filename,
		"recreated", !exists,
	)

	return &RollbackResult{
		ProjectID:       projectID,
		VersionIndex:    req.VersionIndex,
		Filename:        entry.Filename,
		RestoredContent: entry.Content,
		Recreated:       !exists,
	}, nil
}
