package project

import "context"

// Repository provides persistence for projects and their files.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]ProjectSummary, error)
	PutFile(ctx context.Context, projectID, filename string, rec FileRecord) error
	DeleteFile(ctx context.Context, projectID, filename string) error
	SetReadme(ctx context.Context, projectID, readme string) error
}

// HistoryRecorder receives a snapshot every time a file is added.
type HistoryRecorder interface {
	RecordAddFile(ctx context.Context, projectID, filename, content string) error
}
