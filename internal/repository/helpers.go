package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/trestle/internal/domain"
)

// parseNullableDate parses a sql.NullString into a *time.Time using the date layout.
// Returns nil if the value is NULL, empty, or fails to parse, so a bad row
// degrades to "no date" instead of failing the whole listing.
func parseNullableDate(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	return domain.ParseDate(s.String)
}

// parseNullableTimestamp is the RFC3339 counterpart of parseNullableDate.
func parseNullableTimestamp(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableDateToString converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise the YYYY-MM-DD string.
func nullableDateToString(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(domain.DateLayout)
}

// nullableTimestampToString stores an optional instant as RFC3339.
func nullableTimestampToString(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// parseTimestamps fills created/updated from their stored RFC3339 strings.
func parseTimestamps(createdStr, updatedStr string, created, updated *time.Time) error {
	var err error
	*created, err = time.Parse(time.RFC3339, createdStr)
	if err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	*updated, err = time.Parse(time.RFC3339, updatedStr)
	if err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}
	return nil
}

// requireAffected turns a zero-row UPDATE or DELETE into ErrNotFound.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s rows affected: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
