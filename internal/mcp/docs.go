package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `v2c turns natural-language requests into code and keeps the results in projects.

Core concepts:
- Project: a named set of files with a target language. Creating a project makes it current.
- File: addressed by filename within a project. Adding an existing filename overwrites it.
- History: every add_file appends a snapshot. Entries are indexed from 0 in insertion order.

Workflow:
1) create_project (or list_projects + get_project to pick up existing work).
2) generate_code from a description, then add_file to store the result. Omit filename to get main.<ext>, then file1.<ext>, ...
3) get_history shows recent snapshots with their absolute index.
4) rollback(version_index) restores the snapshot at that index. A file removed since then is recreated.

Omitted project_id always means the current project.

Docs:
- v2c://docs/workflow
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "v2c://docs/workflow",
		Name:        "docs_workflow",
		Title:       "v2c workflow",
		Description: "Projects, files, history indexes and rollback rules.",
		Content: `# v2c workflow

## Projects
- ` + "`create_project(name, language?)`" + ` returns the new project and makes it current.
- IDs look like ` + "`project_20240101_120000_1a2b3c4d`" + `.
- ` + "`language`" + ` defaults to python.

## Files
- ` + "`add_file(content, filename?, language?, project_id?)`" + `
- Without a filename the server picks ` + "`main.<ext>`" + ` for the first file and ` + "`file<N>.<ext>`" + ` after that.
- The extension follows the file language, which defaults to the project language (python: .py, go: .go, bash: .sh, unknown: .txt).
- File order in ` + "`get_project`" + ` is first-insertion order. Overwrites keep their position.

## History
- Each add_file appends ` + "`{timestamp, action: add_file, filename, content}`" + `.
- ` + "`get_history(limit?)`" + ` returns the last 10 entries by default, oldest first, each with its absolute ` + "`index`" + `.

## Rollback
- ` + "`rollback(version_index, project_id?)`" + ` restores the file named by that entry.
- ` + "`version_index`" + ` must be in [0, history length). There is no "last entry" shorthand.
- Rollback does not add a history entry.
- If the file no longer exists it is recreated and ` + "`recreated`" + ` is true.

## Errors
Tool errors read ` + "`CODE: message`" + `. Codes: NOT_FOUND, INVALID_PROJECT, INVALID_VERSION, NAME_COLLISION, INVALID_INPUT, INTERNAL.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
