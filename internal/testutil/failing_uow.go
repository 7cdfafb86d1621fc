package testutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/trestle/internal/db"
)

// ExecFaultUoW runs work inside a real transaction but makes the FailAt-th
// write (1-based) return Err, so callers can assert that a multi-write use
// case rolls back. Reads are never counted.
type ExecFaultUoW struct {
	DB     *sql.DB
	FailAt int
	Err    error
}

func (u *ExecFaultUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(ctx, &faultyTx{DBTX: tx, failAt: u.FailAt, err: u.Err}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type faultyTx struct {
	db.DBTX
	writes int
	failAt int
	err    error
}

func (f *faultyTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.writes++
	if f.writes == f.failAt {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
