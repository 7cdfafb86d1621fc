package service

import (
	"context"

	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/importer"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id int64) error
}

// StageService manages stages. Create appends the stage after the project's
// existing stages.
type StageService interface {
	Create(ctx context.Context, s *domain.Stage) error
	GetByID(ctx context.Context, id int64) (*domain.Stage, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Stage, error)
	Update(ctx context.Context, s *domain.Stage) error
	Delete(ctx context.Context, id int64) error
}

// TaskService manages tasks. Edit touches name and description only;
// completion changes go through Complete and Uncheck.
type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	ListByStage(ctx context.Context, stageID int64) ([]*domain.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error)
	Edit(ctx context.Context, id int64, name, description string) (*domain.Task, error)
	Complete(ctx context.Context, id int64) (*domain.Task, error)
	Uncheck(ctx context.Context, id int64) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
}

// ImportResult holds the outcome of a project import.
type ImportResult struct {
	Project    *domain.Project
	StageCount int
	TaskCount  int
}

type ImportService interface {
	ImportProject(ctx context.Context, filePath string) (*ImportResult, error)
	ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
