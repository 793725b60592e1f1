package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/v2c/internal/lock"
	"github.com/rpggio/v2c/internal/repository"
)

const (
	// DefaultName is used when a project is created without a name.
	DefaultName = "Untitled Project"
	// DefaultLanguage is used when no language is given.
	DefaultLanguage = "python"

	createAttempts = 3
)

// Service handles project operations.
type Service struct {
	repo      Repository
	history   HistoryRecorder
	selection *Selection
	locks     *lock.Keyed
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new project service. selection and locks are shared
// with the history service so both resolve and serialise the same projects.
func NewService(repo Repository, history HistoryRecorder, selection *Selection, locks *lock.Keyed, logger *slog.Logger) *Service {
	if selection == nil {
		selection = &Selection{}
	}
	if locks == nil {
		locks = lock.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:      repo,
		history:   history,
		selection: selection,
		locks:     locks,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name     string
	Language string
}

// AddFileRequest defines file add inputs. Empty ProjectID means the current
// project; empty Filename asks for a generated one.
type AddFileRequest struct {
	ProjectID string
	Filename  string
	Content   string
	Language  string
}

// AddFileResult is returned by AddFile.
type AddFileResult struct {
	Filename string   `json:"filename"`
	Project  *Project `json:"project"`
}

// Create creates a new project and makes it current.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = DefaultName
	}
	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = DefaultLanguage
	}

	var proj *Project
	for attempt := 0; attempt < createAttempts; attempt++ {
		now := s.now()
		proj = &Project{
			ID:        NewID(now),
			Name:      name,
			Language:  language,
			Files:     map[string]FileRecord{},
			FileOrder: []string{},
			CreatedAt: now,
		}
		err := s.repo.Create(ctx, proj)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrConflict) || attempt == createAttempts-1 {
			return nil, fmt.Errorf("creating project: %w", err)
		}
		s.logger.Warn("project id collision, retrying", "id", proj.ID)
	}

	s.selection.Set(proj.ID)
	s.logger.Info("project created", "id", proj.ID, "name", proj.Name, "language", proj.Language)
	return proj, nil
}

// NewID mints a project identifier. The second-resolution timestamp keeps IDs
// sortable by creation; the random suffix keeps same-second IDs distinct.
func NewID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("project_%s_%s", now.Format("20060102_150405"), suffix)
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrProjectNotFound
	}
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// Current returns the current project.
func (s *Service) Current(ctx context.Context) (*Project, error) {
	return s.Get(ctx, s.selection.ID())
}

// CurrentID returns the current project ID, or "".
func (s *Service) CurrentID() string {
	return s.selection.ID()
}

// List returns project summaries, newest first.
func (s *Service) List(ctx context.Context) ([]ProjectSummary, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	if list == nil {
		list = []ProjectSummary{}
	}
	return list, nil
}

// AddFile inserts or overwrites a file and records a history snapshot.
func (s *Service) AddFile(ctx context.Context, req AddFileRequest) (*AddFileResult, error) {
	filename := strings.TrimSpace(req.Filename)
	if err := validateFilename(filename); err != nil {
		return nil, err
	}

	projectID := s.selection.Resolve(strings.TrimSpace(req.ProjectID))
	if projectID == "" {
		return nil, ErrInvalidProject
	}

	unlock := s.locks.Lock(projectID)
	defer unlock()

	proj, err := s.repo.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidProject
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}

	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = proj.Language
	}
	if language == "" {
		language = DefaultLanguage
	}

	if filename == "" {
		filename, err = AutoFilename(proj.Files, language)
		if err != nil {
			return nil, err
		}
	}

	rec := FileRecord{
		Content:   req.Content,
		CreatedAt: s.now(),
		Language:  language,
	}
	prev, existed := proj.Files[filename]
	if err := s.repo.PutFile(ctx, projectID, filename, rec); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidProject
		}
		return nil, fmt.Errorf("storing file: %w", err)
	}
	proj.PutFile(filename, rec)

	if s.history != nil {
		if err := s.history.RecordAddFile(ctx, projectID, filename, req.Content); err != nil {
			s.revertFile(ctx, projectID, filename, prev, existed)
			return nil, fmt.Errorf("recording history: %w", err)
		}
	}

	s.logger.Debug("file added", "project_id", projectID, "filename", filename, "bytes", len(req.Content))
	return &AddFileResult{Filename: filename, Project: proj}, nil
}

// revertFile undoes a PutFile whose history entry could not be recorded, so
// a file never changes without a matching snapshot.
func (s *Service) revertFile(ctx context.Context, projectID, filename string, prev FileRecord, existed bool) {
	var err error
	if existed {
		err = s.repo.PutFile(ctx, projectID, filename, prev)
	} else {
		err = s.repo.DeleteFile(ctx, projectID, filename)
	}
	if err != nil {
		s.logger.Error("reverting file after history failure", "project_id", projectID, "filename", filename, "error", err)
	}
}

// validateFilename rejects names that would escape the project when exported.
func validateFilename(name string) error {
	if name == "" {
		return nil
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: filename %q must not contain a path", ErrInvalidInput, name)
	}
	return nil
}

// SetReadme stores README text on a project.
func (s *Service) SetReadme(ctx context.Context, id, readme string) (*Project, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrProjectNotFound
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.repo.SetReadme(ctx, id, readme); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("setting readme: %w", err)
	}
	return s.Get(ctx, id)
}
