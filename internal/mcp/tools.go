package mcp

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/v2c/internal/apierror"
	"github.com/rpggio/v2c/internal/codegen"
	"github.com/rpggio/v2c/internal/domain/history"
	"github.com/rpggio/v2c/internal/domain/project"
)

func registerTools(server *sdkmcp.Server, svc Services) {
	h := &toolHandlers{svc: svc}

	// Projects
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project and make it current",
	}, h.createProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List projects, newest first",
	}, h.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project with its files in insertion order",
	}, h.getProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_file",
		Description: "Add or overwrite a file in a project and record a history snapshot",
	}, h.addFile)

	// History
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_history",
		Description: "Get the most recent history entries of a project, oldest first",
	}, h.getHistory)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "rollback",
		Description: "Restore a file to the content stored at a history index",
	}, h.rollback)

	// Code
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "generate_code",
		Description: "Generate code from a natural language description",
	}, h.generateCode)
}

type toolHandlers struct {
	svc Services
}

func (h *toolHandlers) createProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, ProjectResult, error) {
	proj, err := h.svc.Projects.Create(ctx, project.CreateRequest{Name: in.Name, Language: in.Language})
	if err != nil {
		return nil, ProjectResult{}, MapError(err)
	}
	return nil, ProjectResult{Project: toProjectView(proj)}, nil
}

func (h *toolHandlers) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsParams) (*sdkmcp.CallToolResult, ListProjectsResult, error) {
	list, err := h.svc.Projects.List(ctx)
	if err != nil {
		return nil, ListProjectsResult{}, MapError(err)
	}
	return nil, ListProjectsResult{Projects: toSummaryViews(list)}, nil
}

func (h *toolHandlers) getProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetProjectParams) (*sdkmcp.CallToolResult, ProjectResult, error) {
	var (
		proj *project.Project
		err  error
	)
	if id := strings.TrimSpace(in.ProjectID); id != "" {
		proj, err = h.svc.Projects.Get(ctx, id)
	} else {
		proj, err = h.svc.Projects.Current(ctx)
	}
	if err != nil {
		return nil, ProjectResult{}, MapError(err)
	}
	return nil, ProjectResult{Project: toProjectView(proj)}, nil
}

func (h *toolHandlers) addFile(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddFileParams) (*sdkmcp.CallToolResult, AddFileToolResult, error) {
	res, err := h.svc.Projects.AddFile(ctx, project.AddFileRequest{
		ProjectID: in.ProjectID,
		Filename:  in.Filename,
		Content:   in.Content,
		Language:  in.Language,
	})
	if err != nil {
		return nil, AddFileToolResult{}, MapError(err)
	}
	return nil, AddFileToolResult{Filename: res.Filename, Project: toProjectView(res.Project)}, nil
}

func (h *toolHandlers) getHistory(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetHistoryParams) (*sdkmcp.CallToolResult, GetHistoryResult, error) {
	projectID := h.resolveProject(in.ProjectID)
	page, err := h.svc.History.Recent(ctx, projectID, in.Limit)
	if err != nil {
		return nil, GetHistoryResult{}, MapError(err)
	}
	return nil, GetHistoryResult{
		ProjectID: projectID,
		History:   toHistoryViews(page.Entries, page.Offset),
	}, nil
}

func (h *toolHandlers) rollback(ctx context.Context, _ *sdkmcp.CallToolRequest, in RollbackParams) (*sdkmcp.CallToolResult, RollbackToolResult, error) {
	index := -1
	if in.VersionIndex != nil {
		index = *in.VersionIndex
	}
	res, err := h.svc.History.Rollback(ctx, history.RollbackRequest{
		ProjectID:    in.ProjectID,
		VersionIndex: index,
	})
	if err != nil {
		return nil, RollbackToolResult{}, MapError(err)
	}
	return nil, RollbackToolResult{
		ProjectID:       res.ProjectID,
		VersionIndex:    res.VersionIndex,
		Filename:        res.Filename,
		RestoredContent: res.RestoredContent,
		Recreated:       res.Recreated,
	}, nil
}

func (h *toolHandlers) generateCode(ctx context.Context, _ *sdkmcp.CallToolRequest, in GenerateCodeParams) (*sdkmcp.CallToolResult, GenerateCodeResult, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, GenerateCodeResult{}, apierror.InvalidInput("text is required")
	}
	lang := in.Language
	if lang == "" {
		lang = codegen.DefaultLanguage
	}
	code, err := h.svc.Code.Generate(ctx, in.Text, lang)
	if err != nil {
		return nil, GenerateCodeResult{}, MapError(err)
	}
	return nil, GenerateCodeResult{Code: code, Language: lang}, nil
}

func (h *toolHandlers) resolveProject(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return h.svc.Projects.CurrentID()
}
