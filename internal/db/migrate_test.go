package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"projects", "stages", "tasks"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, idx := range []string{"idx_stages_project", "idx_tasks_stage"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestSchema_StageDeleteCascadesToTasks(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, name, start_date, created_at, updated_at) VALUES (1, 'P', '2024-01-01', 'x', 'x')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO stages (id, project_id, name, created_at, updated_at) VALUES (10, 1, 'S', 'x', 'x')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO tasks (stage_id, name, created_at, updated_at) VALUES (10, 'T1', 'x', 'x'), (10, 'T2', 'x', 'x')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM stages WHERE id = 10`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM tasks`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestSchema_RejectsNonBinaryCompletion(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, name, start_date, created_at, updated_at) VALUES (1, 'P', '2024-01-01', 'x', 'x')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO stages (id, project_id, name, created_at, updated_at) VALUES (10, 1, 'S', 'x', 'x')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO tasks (stage_id, name, is_completed, created_at, updated_at) VALUES (10, 'T', 2, 'x', 'x')`)
	assert.Error(t, err)
}
