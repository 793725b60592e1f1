package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/v2c/internal/domain/project"
	"github.com/rpggio/v2c/internal/repository"
	"github.com/stretchr/testify/require"
)

func newProject(id string, createdAt time.Time) *project.Project {
	return &project.Project{
		ID:        id,
		Name:      "Test Project",
		Language:  "python",
		Files:     map[string]project.FileRecord{},
		FileOrder: []string{},
		CreatedAt: createdAt,
	}
}

func TestProjectRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := newProject("p1", time.Now())
	proj.Readme = "# Test"
	proj.PutFile("main.py", project.FileRecord{Content: "print(1)", Language: "python", CreatedAt: time.Now()})

	require.NoError(t, repo.Create(ctx, proj))

	retrieved, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "p1", retrieved.ID)
	require.Equal(t, "Test Project", retrieved.Name)
	require.Equal(t, "python", retrieved.Language)
	require.Equal(t, "# Test", retrieved.Readme)
	require.Equal(t, []string{"main.py"}, retrieved.FileOrder)
	require.Equal(t, "print(1)", retrieved.Files["main.py"].Content)
}

func TestProjectRepository_CreateConflict(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProject("p1", time.Now())))
	err := repo.Create(ctx, newProject("p1", time.Now()))
	require.Equal(t, repository.ErrConflict, err)
}

func TestProjectRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	_, err := repo.Get(context.Background(), "nonexistent")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestProjectRepository_PutFile(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProject("p1", time.Now())))

	require.NoError(t, repo.PutFile(ctx, "p1", "b.py", project.FileRecord{Content: "b1", Language: "python"}))
	require.NoError(t, repo.PutFile(ctx, "p1", "a.py", project.FileRecord{Content: "a1", Language: "python"}))
	require.NoError(t, repo.PutFile(ctx, "p1", "b.py", project.FileRecord{Content: "b2", Language: "python"}))

	retrieved, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, []string{"b.py", "a.py"}, retrieved.FileOrder, "overwrite keeps original position")
	require.Equal(t, "b2", retrieved.Files["b.py"].Content)
	require.Len(t, retrieved.Files, 2)
}

func TestProjectRepository_PutFileMissingProject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	err := repo.PutFile(context.Background(), "missing", "a.py", project.FileRecord{Content: "x"})
	require.Equal(t, repository.ErrNotFound, err)
}

func TestProjectRepository_DeleteFile(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProject("p1", time.Now())))
	require.NoError(t, repo.PutFile(ctx, "p1", "a.py", project.FileRecord{Content: "a", Language: "python"}))
	require.NoError(t, repo.PutFile(ctx, "p1", "b.py", project.FileRecord{Content: "b", Language: "python"}))
	require.NoError(t, repo.DeleteFile(ctx, "p1", "a.py"))

	retrieved, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, []string{"b.py"}, retrieved.FileOrder)
	require.NotContains(t, retrieved.Files, "a.py")
}

func TestProjectRepository_SetReadme(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProject("p1", time.Now())))
	require.NoError(t, repo.SetReadme(ctx, "p1", "hello"))

	retrieved, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "hello", retrieved.Readme)

	require.Equal(t, repository.ErrNotFound, repo.SetReadme(ctx, "missing", "x"))
}

func TestProjectRepository_List(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.NotNil(t, summaries)
	require.Empty(t, summaries)

	base := time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, newProject("old", base)))
	require.NoError(t, repo.Create(ctx, newProject("new", base.Add(time.Minute))))
	require.NoError(t, repo.PutFile(ctx, "old", "a.py", project.FileRecord{Content: "a"}))
	require.NoError(t, repo.PutFile(ctx, "old", "b.py", project.FileRecord{Content: "b"}))

	summaries, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, "new", summaries[0].ID)
	require.Equal(t, 0, summaries[0].FileCount)
	require.Equal(t, "old", summaries[1].ID)
	require.Equal(t, 2, summaries[1].FileCount)
}
