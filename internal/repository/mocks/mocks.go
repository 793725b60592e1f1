package mocks

import (
	"context"

	"github.com/rpggio/v2c/internal/domain/history"
	"github.com/rpggio/v2c/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.ProjectSummary, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.ProjectSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) PutFile(ctx context.Context, projectID, filename string, rec project.FileRecord) error {
	args := m.Called(ctx, projectID, filename, rec)
	return args.Error(0)
}

func (m *ProjectRepository) DeleteFile(ctx context.Context, projectID, filename string) error {
	args := m.Called(ctx, projectID, filename)
	return args.Error(0)
}

func (m *ProjectRepository) SetReadme(ctx context.Context, projectID, readme string) error {
	args := m.Called(ctx, projectID, readme)
	return args.Error(0)
}

// HistoryRepository is a mock for history.Repository.
type HistoryRepository struct {
	mock.Mock
}

func (m *HistoryRepository) Append(ctx context.Context, projectID string, entry *history.Entry) error {
	args := m.Called(ctx, projectID, entry)
	return args.Error(0)
}

func (m *HistoryRepository) Count(ctx context.Context, projectID string) (int, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Error(1)
}

func (m *HistoryRepository) Range(ctx context.Context, projectID string, offset, limit int) ([]history.Entry, error) {
	args := m.Called(ctx, projectID, offset, limit)
	if list, ok := args.Get(0).([]history.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// HistoryRecorder is a mock for project.HistoryRecorder.
type HistoryRecorder struct {
	mock.Mock
}

func (m *HistoryRecorder) RecordAddFile(ctx context.Context, projectID, filename, content string) error {
	args := m.Called(ctx, projectID, filename, content)
	return args.Error(0)
}
