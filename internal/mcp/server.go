package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/v2c/internal/domain/history"
	"github.com/rpggio/v2c/internal/domain/project"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	Current(ctx context.Context) (*project.Project, error)
	List(ctx context.Context) ([]project.ProjectSummary, error)
	AddFile(ctx context.Context, req project.AddFileRequest) (*project.AddFileResult, error)
	CurrentID() string
}

// HistoryService defines history operations needed by MCP.
type HistoryService interface {
	Recent(ctx context.Context, projectID string, limit int) (*history.Page, error)
	Rollback(ctx context.Context, req history.RollbackRequest) (*history.RollbackResult, error)
}

// CodeService defines code generation operations needed by MCP.
type CodeService interface {
	Generate(ctx context.Context, text, lang string) (string, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	History  HistoryService
	Code     CodeService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "v2c",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	// The first middleware is outermost, so the session ID is in the
	// context before anything logs.
	server.AddReceivingMiddleware(
		sessionMiddleware(),
		toolCallMiddleware(logger),
		trafficLoggingMiddleware(logger, "inbound"),
	)
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	registerTools(server, cfg.Services)

	logger.Debug("mcp server configured", "transport", cfg.TransportMode)
	return server
}
