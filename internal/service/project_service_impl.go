package service

import (
	"context"
	"time"

	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepo
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, observers ...UseCaseObserver) ProjectService {
	return &projectService{projects: projects, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	done := track(ctx, s.observer, "create-project", map[string]any{"name": p.Name})
	defer func() { done(err) }()

	if p.StartDate.IsZero() {
		p.StartDate = domain.DateOf(time.Now())
	}
	if err := p.Validate(); err != nil {
		return invalid(err)
	}
	now := time.Now().UTC().Truncate(time.Second)
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) (err error) {
	done := track(ctx, s.observer, "update-project", map[string]any{"project_id": p.ID})
	defer func() { done(err) }()

	if err := p.Validate(); err != nil {
		return invalid(err)
	}
	p.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	return s.projects.Update(ctx, p)
}

func (s *projectService) Delete(ctx context.Context, id int64) (err error) {
	done := track(ctx, s.observer, "delete-project", map[string]any{"project_id": id})
	defer func() { done(err) }()

	return s.projects.Delete(ctx, id)
}
