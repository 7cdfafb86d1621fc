package db_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/alexanderramin/trestle/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func insertProject(ctx context.Context, tx db.DBTX, name string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO projects (name, start_date, created_at, updated_at) VALUES (?, '2024-01-01', 'x', 'x')`, name)
	return err
}

func countProjects(t *testing.T, database *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&n))
	return n
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertProject(ctx, tx, "Depot")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countProjects(t, database))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertProject(ctx, tx, "Depot"); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")
	assert.Equal(t, 0, countProjects(t, database))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertProject(ctx, tx, "Depot")
			panic("boom")
		})
	})
	assert.Equal(t, 0, countProjects(t, database))
}

func TestWithinTx_CommitFailureKeepsCommitError(t *testing.T) {
	_, uow := openUoW(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := insertProject(ctx, tx, "Depot"); err != nil {
			return err
		}
		cancel()
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "committing transaction")
	assert.NotContains(t, err.Error(), "rollback failed")
}
