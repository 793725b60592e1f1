package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	for _, table := range []string{"projects", "project_files", "history_entries"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}

	// Running twice is harmless.
	require.NoError(t, db.RunMigrations())
}

func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func TestProjectFilesConstraints(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	now := time.Now()

	_, err := db.ExecContext(ctx,
		`INSERT INTO project_files (project_id, filename, content, language, created_at) VALUES (?, ?, ?, ?, ?)`,
		"missing", "main.py", "", "python", now)
	require.Error(t, err, "should fail without a parent project")
	require.True(t, isForeignKeyViolation(err))

	_, err = db.ExecContext(ctx,
		`INSERT INTO projects (id, name, language, created_at) VALUES (?, ?, ?, ?)`,
		"p1", "Test Project", "python", now)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO projects (id, name, language, created_at) VALUES (?, ?, ?, ?)`,
		"p1", "Again", "python", now)
	require.True(t, isUniqueViolation(err))
}
