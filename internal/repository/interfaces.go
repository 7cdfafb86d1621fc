package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/trestle/internal/domain"
)

// ErrNotFound is wrapped by every GetByID-style lookup that matches no row.
var ErrNotFound = errors.New("not found")

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id int64) error
}

type StageRepo interface {
	Create(ctx context.Context, s *domain.Stage) error
	GetByID(ctx context.Context, id int64) (*domain.Stage, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Stage, error)
	NextOrderIndex(ctx context.Context, projectID int64) (int, error)
	Update(ctx context.Context, s *domain.Stage) error
	Delete(ctx context.Context, id int64) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	ListByStage(ctx context.Context, stageID int64) ([]*domain.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id int64) error
}
