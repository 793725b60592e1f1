// Package memory keeps projects and history in process memory. State lives
// as long as the DB value and is lost on restart.
package memory

import (
	"sync"

	"github.com/rpggio/v2c/internal/domain/history"
	"github.com/rpggio/v2c/internal/domain/project"
)

// DB holds every project and history log behind one lock.
type DB struct {
	mu       sync.RWMutex
	projects map[string]*project.Project
	history  map[string][]history.Entry
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{
		projects: make(map[string]*project.Project),
		history:  make(map[string][]history.Entry),
	}
}
