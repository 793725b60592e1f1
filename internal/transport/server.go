// Package transport serves the V2C HTTP API.
package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/v2c/internal/codegen"
	"github.com/rpggio/v2c/internal/domain/history"
	"github.com/rpggio/v2c/internal/domain/project"
)

// DefaultMaxUploadBytes caps request bodies when no limit is configured.
const DefaultMaxUploadBytes = 16 << 20

// ProjectService is the project store surface used by handlers.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context) ([]project.ProjectSummary, error)
	AddFile(ctx context.Context, req project.AddFileRequest) (*project.AddFileResult, error)
	SetReadme(ctx context.Context, id, readme string) (*project.Project, error)
}

// HistoryService is the history log surface used by handlers.
type HistoryService interface {
	GetRecent(ctx context.Context, projectID string, limit int) ([]history.Entry, error)
	Rollback(ctx context.Context, req history.RollbackRequest) (*history.RollbackResult, error)
}

// CodeService is the code generation surface used by handlers.
type CodeService interface {
	Generate(ctx context.Context, text, lang string) (string, error)
	Modify(ctx context.Context, req codegen.ModifyRequest) (string, error)
	Describe(ctx context.Context, code, lang string) (string, error)
	Explain(ctx context.Context, code, lang string) (string, error)
	Debug(ctx context.Context, code, lang string) string
	DetectBugs(ctx context.Context, code, lang string) (string, error)
	PlanProject(ctx context.Context, description, lang string) (*codegen.Plan, error)
	Transcribe(ctx context.Context, audio []byte, languageCode string) (string, error)
}

// Services groups the services the router dispatches to.
type Services struct {
	Projects ProjectService
	History  HistoryService
	Code     CodeService
}

// Options configures NewServer.
type Options struct {
	MaxUploadBytes int64
	// VoiceLanguages are BCP 47 codes listed by the index route.
	VoiceLanguages []string
	// ProgrammingLanguages maps language keys to display names.
	ProgrammingLanguages map[string]string
	// MCPHandler, when set, is mounted at /mcp.
	MCPHandler http.Handler
	Logger     *slog.Logger
}

// Server holds handler dependencies.
type Server struct {
	services Services
	opts     Options
	logger   *slog.Logger
}

// NewServer creates an HTTP router with middleware.
func NewServer(services Services, opts Options) *chi.Mux {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{services: services, opts: opts, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", srv.handleIndex)
	r.Get("/health", srv.handleHealth)

	r.Post("/generate_code", srv.handleGenerateCode)
	r.Post("/modify_code", srv.handleModifyCode)
	r.Post("/process_audio", srv.handleProcessAudio)
	r.Post("/run_code", srv.handleRunCode)
	r.Post("/format_code", srv.handleFormatCode)
	r.Post("/debug_code", srv.handleDebugCode)
	r.Post("/generate_description", srv.handleGenerateDescription)
	r.Post("/create_multi_file_project", srv.handleCreateMultiFileProject)
	r.Post("/explain_code", srv.handleExplainCode)
	r.Post("/detect_bugs", srv.handleDetectBugs)
	r.Post("/voice_command", srv.handleVoiceCommand)

	r.Post("/create_project", srv.handleCreateProject)
	r.Get("/projects", srv.handleListProjects)
	r.Get("/projects/{id}", srv.handleGetProject)
	r.Put("/projects/{id}/readme", srv.handleSetReadme)
	r.Post("/add_file", srv.handleAddFile)
	r.Get("/export_project/{id}", srv.handleExportProject)
	r.Get("/get_history/{id}", srv.handleGetHistory)
	r.Post("/rollback", srv.handleRollback)

	if opts.MCPHandler != nil {
		r.Handle("/mcp", opts.MCPHandler)
		r.Handle("/mcp/*", opts.MCPHandler)
	}

	return r
}
