// Package app assembles the repositories and services behind both the HTTP
// and MCP surfaces.
package app

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/v2c/internal/codegen"
	"github.com/rpggio/v2c/internal/domain/history"
	"github.com/rpggio/v2c/internal/domain/project"
	"github.com/rpggio/v2c/internal/lock"
	"github.com/rpggio/v2c/internal/memory"
	"github.com/rpggio/v2c/internal/sqlite"
)

// MemoryDB selects the in-process backend.
const MemoryDB = "memory"

// Gateways are the external services codegen talks to. Translator and
// Speech may be nil.
type Gateways struct {
	AI         codegen.Generator
	Translator codegen.Translator
	Speech     codegen.Transcriber
}

// App holds the wired services.
type App struct {
	Projects *project.Service
	History  *history.Service
	Code     *codegen.Service

	closeFn func() error
}

// New wires services on top of the backend named by dbPath: "memory" (or
// empty) keeps state in process, anything else is a SQLite data source.
func New(dbPath string, gw Gateways, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var (
		projectRepo project.Repository
		historyRepo history.Repository
		closeFn     = func() error { return nil }
	)

	switch path := strings.TrimSpace(dbPath); path {
	case "", MemoryDB:
		db := memory.New()
		projectRepo = memory.NewProjectRepository(db)
		historyRepo = memory.NewHistoryRepository(db)
		logger.Info("using in-memory store")
	default:
		db, err := sqlite.New(path)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		projectRepo = sqlite.NewProjectRepository(db)
		historyRepo = sqlite.NewHistoryRepository(db)
		closeFn = db.Close
		logger.Info("using sqlite store", "path", path)
	}

	selection := &project.Selection{}
	locks := lock.New()

	historySvc := history.NewService(historyRepo, projectRepo, selection, locks, logger)
	projectSvc := project.NewService(projectRepo, historySvc, selection, locks, logger)
	codeSvc := codegen.NewService(gw.AI, gw.Translator, gw.Speech, logger)

	return &App{
		Projects: projectSvc,
		History:  historySvc,
		Code:     codeSvc,
		closeFn:  closeFn,
	}, nil
}

// Close releases the backend.
func (a *App) Close() error {
	if a == nil || a.closeFn == nil {
		return nil
	}
	return a.closeFn()
}
