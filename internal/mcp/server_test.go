package mcp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/v2c/internal/app"
	"github.com/rpggio/v2c/internal/mcp"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply string
}

func (f fakeGenerator) Generate(context.Context, string) (string, error) {
	return f.reply, nil
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func connect(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()
	return connectWithLogger(t, nil)
}

func connectWithLogger(t *testing.T, logger *slog.Logger) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	a, err := app.New(app.MemoryDB, app.Gateways{AI: fakeGenerator{reply: "```python\nprint('hi')\n```"}}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	server := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: a.Projects,
			History:  a.History,
			Code:     a.Code,
		},
		TransportMode: "stdio",
		Logger:        logger,
	})

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	return cs
}

func callTool(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.False(t, res.IsError, "tool %s failed: %s", name, toolText(res))
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(toolText(res)), out))
	}
}

func callToolError(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) string {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.True(t, res.IsError, "expected %s to fail", name)
	return toolText(res)
}

func toolText(res *sdkmcp.CallToolResult) string {
	if len(res.Content) == 0 {
		return ""
	}
	if text, ok := res.Content[0].(*sdkmcp.TextContent); ok {
		return text.Text
	}
	return ""
}

func TestServer_ListsTools(t *testing.T) {
	cs := connect(t)

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{
		"create_project", "list_projects", "get_project", "add_file",
		"get_history", "rollback", "generate_code",
	}, names)
}

func TestServer_ProjectWorkflow(t *testing.T) {
	cs := connect(t)

	var created mcp.ProjectResult
	callTool(t, cs, "create_project", map[string]any{"name": "Demo", "language": "python"}, &created)
	require.Equal(t, "Demo", created.Project.Name)
	require.Regexp(t, `^project_\d{8}_\d{6}_[0-9a-f]{8}$`, created.Project.ID)

	var added mcp.AddFileToolResult
	callTool(t, cs, "add_file", map[string]any{"content": "print(1)"}, &added)
	require.Equal(t, "main.py", added.Filename)

	callTool(t, cs, "add_file", map[string]any{"content": "print(2)"}, &added)
	require.Equal(t, "file1.py", added.Filename)

	var got mcp.ProjectResult
	callTool(t, cs, "get_project", map[string]any{}, &got)
	require.Len(t, got.Project.Files, 2)
	require.Equal(t, "main.py", got.Project.Files[0].Filename)
	require.Equal(t, "file1.py", got.Project.Files[1].Filename)

	var list mcp.ListProjectsResult
	callTool(t, cs, "list_projects", map[string]any{}, &list)
	require.Len(t, list.Projects, 1)
	require.Equal(t, 2, list.Projects[0].FileCount)
}

func TestServer_HistoryAndRollback(t *testing.T) {
	cs := connect(t)

	var created mcp.ProjectResult
	callTool(t, cs, "create_project", map[string]any{"name": "Demo"}, &created)
	for _, content := range []string{"v0", "v1", "v2"} {
		callTool(t, cs, "add_file", map[string]any{"filename": "main.py", "content": content}, nil)
	}

	var hist mcp.GetHistoryResult
	callTool(t, cs, "get_history", map[string]any{"limit": 2}, &hist)
	require.Equal(t, created.Project.ID, hist.ProjectID)
	require.Len(t, hist.History, 2)
	require.Equal(t, 1, hist.History[0].Index)
	require.Equal(t, "v1", hist.History[0].Content)
	require.Equal(t, "add_file", hist.History[1].Action)

	var rb mcp.RollbackToolResult
	callTool(t, cs, "rollback", map[string]any{"version_index": 0}, &rb)
	require.Equal(t, "v0", rb.RestoredContent)
	require.False(t, rb.Recreated)

	var got mcp.ProjectResult
	callTool(t, cs, "get_project", map[string]any{"project_id": created.Project.ID}, &got)
	require.Equal(t, "v0", got.Project.Files[0].Content)
}

func TestServer_RollbackErrors(t *testing.T) {
	cs := connect(t)

	msg := callToolError(t, cs, "rollback", map[string]any{"version_index": 0})
	require.Contains(t, msg, "NOT_FOUND")

	callTool(t, cs, "create_project", map[string]any{"name": "Demo"}, nil)
	callTool(t, cs, "add_file", map[string]any{"content": "x"}, nil)

	msg = callToolError(t, cs, "rollback", map[string]any{})
	require.Contains(t, msg, "INVALID_VERSION")

	msg = callToolError(t, cs, "rollback", map[string]any{"version_index": 1})
	require.Contains(t, msg, "INVALID_VERSION")
}

func TestServer_GetProjectUnknown(t *testing.T) {
	cs := connect(t)

	msg := callToolError(t, cs, "get_project", map[string]any{"project_id": "nope"})
	require.Contains(t, msg, "NOT_FOUND")
}

func TestServer_AddFileWithoutProject(t *testing.T) {
	cs := connect(t)

	msg := callToolError(t, cs, "add_file", map[string]any{"content": "x"})
	require.Contains(t, msg, "INVALID_PROJECT")
}

func TestServer_GenerateCode(t *testing.T) {
	cs := connect(t)

	var out mcp.GenerateCodeResult
	callTool(t, cs, "generate_code", map[string]any{"text": "say hi"}, &out)
	require.Equal(t, "print('hi')", out.Code)
	require.Equal(t, "python", out.Language)

	msg := callToolError(t, cs, "generate_code", map[string]any{"text": "  "})
	require.Contains(t, msg, "INVALID_INPUT")
}

func TestServer_ReadsWorkflowDoc(t *testing.T) {
	cs := connect(t)

	res, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "v2c://docs/workflow"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "Rollback")
}

func TestServer_LogsToolCalls(t *testing.T) {
	var buf syncBuffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cs := connectWithLogger(t, logger)

	callTool(t, cs, "create_project", map[string]any{"name": "Demo"}, nil)
	callToolError(t, cs, "get_project", map[string]any{"project_id": "nope"})

	require.Eventually(t, func() bool {
		out := buf.String()
		return strings.Contains(out, `msg="tool call" tool=create_project`) &&
			strings.Contains(out, `msg="tool call rejected" tool=get_project`) &&
			strings.Contains(out, `msg="mcp traffic"`)
	}, 2*time.Second, 20*time.Millisecond)
}
