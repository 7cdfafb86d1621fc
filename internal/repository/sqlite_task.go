package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/trestle/internal/db"
	"github.com/alexanderramin/trestle/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, stage_id, name, description, start_date, expected_end_date,
		is_completed, completed_at, created_at, updated_at`

// taskColumnsAliased is the same column list prefixed with "t." for join queries.
const taskColumnsAliased = `t.id, t.stage_id, t.name, t.description, t.start_date, t.expected_end_date,
		t.is_completed, t.completed_at, t.created_at, t.updated_at`

// Tasks list in schedule order. NULL start dates sort last.
const taskOrder = `ORDER BY start_date IS NULL, start_date, id`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (stage_id, name, description, start_date, expected_end_date,
		is_completed, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		t.StageID,
		t.Name,
		t.Description,
		nullableDateToString(t.StartDate),
		nullableDateToString(t.ExpectedEndDate),
		boolToInt(t.IsCompleted),
		nullableTimestampToString(t.CompletedAt),
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading task id: %w", err)
	}
	t.ID = id
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t, err := r.scanTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return t, err
}

func (r *SQLiteTaskRepo) ListByStage(ctx context.Context, stageID int64) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE stage_id = ? ` + taskOrder
	rows, err := r.db.QueryContext(ctx, query, stageID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by stage: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumnsAliased + `
		FROM tasks t
		JOIN stages s ON t.stage_id = s.id
		WHERE s.project_id = ?
		ORDER BY s.order_index, s.id, t.start_date IS NULL, t.start_date, t.id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by project: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET name = ?, description = ?, start_date = ?, expected_end_date = ?,
		is_completed = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Name,
		t.Description,
		nullableDateToString(t.StartDate),
		nullableDateToString(t.ExpectedEndDate),
		boolToInt(t.IsCompleted),
		nullableTimestampToString(t.CompletedAt),
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireAffected(res, "task")
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res, "task")
}

func (r *SQLiteTaskRepo) scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		t, err := r.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var createdAtStr, updatedAtStr string
	var startStr, endStr, completedAtStr sql.NullString
	var completedInt int

	err := row.Scan(
		&t.ID, &t.StageID, &t.Name, &t.Description, &startStr, &endStr,
		&completedInt, &completedAtStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.StartDate = parseNullableDate(startStr)
	t.ExpectedEndDate = parseNullableDate(endStr)
	t.IsCompleted = intToBool(completedInt)
	t.CompletedAt = parseNullableTimestamp(completedAtStr)
	if err := parseTimestamps(createdAtStr, updatedAtStr, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
