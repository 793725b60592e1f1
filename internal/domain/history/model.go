package history

import "time"

// Action tags a history entry.
type Action string

const (
	ActionAddFile Action = "add_file"
)

// Entry is a content snapshot taken when a file changed.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	Filename  string    `json:"filename"`
	Content   string    `json:"content"`
}

// Page is a window of a project's log. Offset is the log index of Entries[0].
type Page struct {
	Offset  int
	Entries []Entry
}

// RollbackResult describes a restored version.
type RollbackResult struct {
	ProjectID       string `json:"project_id"`
	VersionIndex    int    `json:"version_index"`
	Filename        string `json:"filename"`
	RestoredContent string `json:"restored_content"`
	Recreated       bool   `json:"recreated"`
}
