package project

import (
	"sync"
	"time"
)

// FileRecord is a single file owned by a project.
type FileRecord struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Language  string    `json:"language"`
}

// Project groups generated files under a target language.
type Project struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Language  string                `json:"language"`
	Files     map[string]FileRecord `json:"files"`
	FileOrder []string              `json:"file_order"`
	CreatedAt time.Time             `json:"created_at"`
	Readme    string                `json:"readme"`
}

// ProjectSummary is a lightweight representation for listing
type ProjectSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Language  string    `json:"language"`
	FileCount int       `json:"file_count"`
	CreatedAt time.Time `json:"created_at"`
}

// HasFile reports whether filename exists in the project.
func (p *Project) HasFile(filename string) bool {
	_, ok := p.Files[filename]
	return ok
}

// PutFile inserts or overwrites a file. New names are appended to FileOrder.
func (p *Project) PutFile(filename string, rec FileRecord) {
	if p.Files == nil {
		p.Files = make(map[string]FileRecord)
	}
	if _, exists := p.Files[filename]; !exists {
		p.FileOrder = append(p.FileOrder, filename)
	}
	p.Files[filename] = rec
}

// DeleteFile removes a file and its display position.
func (p *Project) DeleteFile(filename string) {
	if _, ok := p.Files[filename]; !ok {
		return
	}
	delete(p.Files, filename)
	for i, name := range p.FileOrder {
		if name == filename {
			p.FileOrder = append(p.FileOrder[:i], p.FileOrder[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Files = make(map[string]FileRecord, len(p.Files))
	for name, rec := range p.Files {
		cp.Files[name] = rec
	}
	cp.FileOrder = append([]string(nil), p.FileOrder...)
	return &cp
}

// Summary returns the listing view of the project.
func (p *Project) Summary() ProjectSummary {
	return ProjectSummary{
		ID:        p.ID,
		Name:      p.Name,
		Language:  p.Language,
		FileCount: len(p.Files),
		CreatedAt: p.CreatedAt,
	}
}

// Selection tracks which project is current. It is shared by every service
// that resolves an omitted project ID.
type Selection struct {
	mu sync.RWMutex
	id string
}

// ID returns the current project ID, or "" if none was selected.
func (s *Selection) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Set makes id the current project.
func (s *Selection) Set(id string) {
	s.mu.Lock()
	s.id = id
	s.mu.Unlock()
}

// Resolve returns id, or the current project ID when id is empty.
func (s *Selection) Resolve(id string) string {
	if id != "" {
		return id
	}
	return s.ID()
}
