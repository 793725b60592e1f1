package mcp

import (
	"time"

	"github.com/rpggio/v2c/internal/domain/history"
	"github.com/rpggio/v2c/internal/domain/project"
)

// Tool parameters.

type CreateProjectParams struct {
	Name     string `json:"name" jsonschema:"project name"`
	Language string `json:"language,omitempty" jsonschema:"target programming language, defaults to python"`
}

type GetProjectParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"project ID, defaults to the current project"`
}

type ListProjectsParams struct{}

type AddFileParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"project ID, defaults to the current project"`
	Filename  string `json:"filename,omitempty" jsonschema:"file name, generated when omitted"`
	Content   string `json:"content" jsonschema:"file content"`
	Language  string `json:"language,omitempty" jsonschema:"file language, defaults to the project language"`
}

type GetHistoryParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"project ID, defaults to the current project"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum entries to return, defaults to 10"`
}

type RollbackParams struct {
	ProjectID    string `json:"project_id,omitempty" jsonschema:"project ID, defaults to the current project"`
	VersionIndex *int   `json:"version_index,omitempty" jsonschema:"history index to restore, from 0 to history length - 1"`
}

type GenerateCodeParams struct {
	Text     string `json:"text" jsonschema:"natural language description of the code"`
	Language string `json:"language,omitempty" jsonschema:"target programming language, defaults to python"`
}

// Tool outputs. Times are RFC 3339 strings.

type FileView struct {
	Filename  string `json:"filename"`
	Language  string `json:"language"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type ProjectView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Language  string     `json:"language"`
	Readme    string     `json:"readme,omitempty"`
	CreatedAt string     `json:"created_at"`
	Files     []FileView `json:"files"`
}

type ProjectSummaryView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Language  string `json:"language"`
	FileCount int    `json:"file_count"`
	CreatedAt string `json:"created_at"`
}

type HistoryEntryView struct {
	Index     int    `json:"index"`
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Filename  string `json:"filename"`
	Content   string `json:"content"`
}

type ProjectResult struct {
	Project ProjectView `json:"project"`
}

type ListProjectsResult struct {
	Projects []ProjectSummaryView `json:"projects"`
}

type AddFileToolResult struct {
	Filename string      `json:"filename"`
	Project  ProjectView `json:"project"`
}

type GetHistoryResult struct {
	ProjectID string             `json:"project_id"`
	History   []HistoryEntryView `json:"history"`
}

type RollbackToolResult struct {
	ProjectID       string `json:"project_id"`
	VersionIndex    int    `json:"version_index"`
	Filename        string `json:"filename"`
	RestoredContent string `json:"restored_content"`
	Recreated       bool   `json:"recreated"`
}

type GenerateCodeResult struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toProjectView(p *project.Project) ProjectView {
	view := ProjectView{
		ID:        p.ID,
		Name:      p.Name,
		Language:  p.Language,
		Readme:    p.Readme,
		CreatedAt: formatTime(p.CreatedAt),
		Files:     make([]FileView, 0, len(p.FileOrder)),
	}
	for _, name := range p.FileOrder {
		rec := p.Files[name]
		view.Files = append(view.Files, FileView{
			Filename:  name,
			Language:  rec.Language,
			Content:   rec.Content,
			CreatedAt: formatTime(rec.CreatedAt),
		})
	}
	return view
}

func toSummaryViews(list []project.ProjectSummary) []ProjectSummaryView {
	views := make([]ProjectSummaryView, 0, len(list))
	for _, s := range list {
		views = append(views, ProjectSummaryView{
			ID:        s.ID,
			Name:      s.Name,
			Language:  s.Language,
			FileCount: s.FileCount,
			CreatedAt: formatTime(s.CreatedAt),
		})
	}
	return views
}

// toHistoryViews numbers entries relative to the full log, so the indexes
// can be passed back to rollback. offset is the log position of entries[0].
func toHistoryViews(entries []history.Entry, offset int) []HistoryEntryView {
	views := make([]HistoryEntryView, 0, len(entries))
	for i, e := range entries {
		views = append(views, HistoryEntryView{
			Index:     offset + i,
			Timestamp: formatTime(e.Timestamp),
			Action:    string(e.Action),
			Filename:  e.Filename,
			Content:   e.Content,
		})
	}
	return views
}
