package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rpggio/v2c/internal/app"
	"github.com/rpggio/v2c/internal/domain/history"
	"github.com/rpggio/v2c/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, a *app.App) {
	t.Helper()
	ctx := context.Background()

	proj, err := a.Projects.Create(ctx, project.CreateRequest{Name: "Demo", Language: "python"})
	require.NoError(t, err)
	require.Equal(t, proj.ID, a.Projects.CurrentID())

	res, err := a.Projects.AddFile(ctx, project.AddFileRequest{Content: "print(1)"})
	require.NoError(t, err)
	require.Equal(t, "main.py", res.Filename)

	_, err = a.Projects.AddFile(ctx, project.AddFileRequest{Filename: "main.py", Content: "print(2)"})
	require.NoError(t, err)

	rb, err := a.History.Rollback(ctx, history.RollbackRequest{VersionIndex: 0})
	require.NoError(t, err)
	require.Equal(t, "print(1)", rb.RestoredContent)

	got, err := a.Projects.Get(ctx, proj.ID)
	require.NoError(t, err)
	require.Equal(t, "print(1)", got.Files["main.py"].Content)

	recent, err := a.History.GetRecent(ctx, proj.ID, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
}

func TestNew_Memory(t *testing.T) {
	a, err := app.New(app.MemoryDB, app.Gateways{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	exercise(t, a)
}

func TestNew_EmptyPathUsesMemory(t *testing.T) {
	a, err := app.New("", app.Gateways{}, nil)
	require.NoError(t, err)
	require.NoError(t, a.Close())
}

func TestNew_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v2c.db")

	a, err := app.New(path, app.Gateways{}, nil)
	require.NoError(t, err)
	exercise(t, a)
	require.NoError(t, a.Close())

	// State survives a reopen.
	reopened, err := app.New(path, app.Gateways{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	list, err := reopened.Projects.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 1, list[0].FileCount)
}

func TestNew_SQLiteBadPath(t *testing.T) {
	_, err := app.New(filepath.Join(t.TempDir(), "missing", "dir", "v2c.db"), app.Gateways{}, nil)
	require.Error(t, err)
}
