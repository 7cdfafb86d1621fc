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

// stageColumns is the canonical SELECT column list for stages.
const stageColumns = `id, project_id, name, description, start_date, end_date, order_index,
		created_at, updated_at`

// SQLiteStageRepo implements StageRepo using a SQLite database.
type SQLiteStageRepo struct {
	db db.DBTX
}

// NewSQLiteStageRepo creates a new SQLiteStageRepo.
func NewSQLiteStageRepo(conn db.DBTX) *SQLiteStageRepo {
	return &SQLiteStageRepo{db: conn}
}

func (r *SQLiteStageRepo) Create(ctx context.Context, s *domain.Stage) error {
	query := `INSERT INTO stages (project_id, name, description, start_date, end_date, order_index,
		created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		s.ProjectID,
		s.Name,
		s.Description,
		nullableDateToString(s.StartDate),
		nullableDateToString(s.EndDate),
		s.OrderIndex,
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting stage: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading stage id: %w", err)
	}
	s.ID = id
	return nil
}

func (r *SQLiteStageRepo) GetByID(ctx context.Context, id int64) (*domain.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages WHERE id = ?`
	s, err := r.scanStage(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("stage %d: %w", id, ErrNotFound)
	}
	return s, err
}

func (r *SQLiteStageRepo) ListByProject(ctx context.Context, projectID int64) ([]*domain.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages WHERE project_id = ? ORDER BY order_index, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing stages by project: %w", err)
	}
	defer rows.Close()

	var stages []*domain.Stage
	for rows.Next() {
		s, err := r.scanStage(rows)
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stages: %w", err)
	}
	return stages, nil
}

// NextOrderIndex returns MAX(order_index) + 1 for the project, 0 when empty.
func (r *SQLiteStageRepo) NextOrderIndex(ctx context.Context, projectID int64) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(order_index) + 1, 0) FROM stages WHERE project_id = ?`, projectID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("computing next stage order for project %d: %w", projectID, err)
	}
	return next, nil
}

func (r *SQLiteStageRepo) Update(ctx context.Context, s *domain.Stage) error {
	query := `UPDATE stages SET name = ?, description = ?, start_date = ?, end_date = ?,
		order_index = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Name,
		s.Description,
		nullableDateToString(s.StartDate),
		nullableDateToString(s.EndDate),
		s.OrderIndex,
		s.UpdatedAt.Format(time.RFC3339),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating stage: %w", err)
	}
	return requireAffected(res, "stage")
}

func (r *SQLiteStageRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting stage: %w", err)
	}
	return requireAffected(res, "stage")
}

// scanStage scans a single stage from a *sql.Row or *sql.Rows.
func (r *SQLiteStageRepo) scanStage(row rowScanner) (*domain.Stage, error) {
	var s domain.Stage
	var createdAtStr, updatedAtStr string
	var startStr, endStr sql.NullString

	err := row.Scan(
		&s.ID, &s.ProjectID, &s.Name, &s.Description, &startStr, &endStr, &s.OrderIndex,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning stage: %w", err)
	}

	s.StartDate = parseNullableDate(startStr)
	s.EndDate = parseNullableDate(endStr)
	if err := parseTimestamps(createdAtStr, updatedAtStr, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
