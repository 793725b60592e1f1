package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/rpggio/v2c/internal/domain/history"
	"github.com/stretchr/testify/require"
)

func TestHistoryRepository_AppendAndRange(t *testing.T) {
	db := NewTestDB(t)
	repo := NewHistoryRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := repo.Append(ctx, "p1", &history.Entry{
			Action:   history.ActionAddFile,
			Filename: "main.py",
			Content:  fmt.Sprintf("v%d", i),
		})
		require.NoError(t, err)
	}
	require.NoError(t, repo.Append(ctx, "p2", &history.Entry{Action: history.ActionAddFile, Filename: "x"}))

	count, err := repo.Count(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 5, count)

	entries, err := repo.Range(ctx, "p1", 3, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "v3", entries[0].Content)
	require.Equal(t, "v4", entries[1].Content)
	require.Equal(t, history.ActionAddFile, entries[0].Action)
	require.False(t, entries[0].Timestamp.IsZero())

	entries, err = repo.Range(ctx, "p1", 1, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "v1", entries[0].Content)
}

func TestHistoryRepository_Empty(t *testing.T) {
	db := NewTestDB(t)
	repo := NewHistoryRepository(db)
	ctx := context.Background()

	count, err := repo.Count(ctx, "none")
	require.NoError(t, err)
	require.Equal(t, 0, count)

	entries, err := repo.Range(ctx, "none", 0, 10)
	require.NoError(t, err)
	require.NotNil(t, entries)
	require.Empty(t, entries)
}
