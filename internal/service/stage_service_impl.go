package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/repository"
)

type stageService struct {
	projects repository.ProjectRepo
	stages   repository.StageRepo
	observer UseCaseObserver
}

func NewStageService(projects repository.ProjectRepo, stages repository.StageRepo, observers ...UseCaseObserver) StageService {
	return &stageService{projects: projects, stages: stages, observer: useCaseObserverOrNoop(observers)}
}

func (s *stageService) Create(ctx context.Context, st *domain.Stage) (err error) {
	done := track(ctx, s.observer, "create-stage", map[string]any{"project_id": st.ProjectID, "name": st.Name})
	defer func() { done(err) }()

	if err := st.Validate(); err != nil {
		return invalid(err)
	}
	if _, err := s.projects.GetByID(ctx, st.ProjectID); err != nil {
		return err
	}
	order, err := s.stages.NextOrderIndex(ctx, st.ProjectID)
	if err != nil {
		return err
	}
	st.OrderIndex = order

	now := time.Now().UTC().Truncate(time.Second)
	st.CreatedAt = now
	st.UpdatedAt = now
	return s.stages.Create(ctx, st)
}

func (s *stageService) GetByID(ctx context.Context, id int64) (*domain.Stage, error) {
	return s.stages.GetByID(ctx, id)
}

func (s *stageService) ListByProject(ctx context.Context, projectID int64) ([]*domain.Stage, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.stages.ListByProject(ctx, projectID)
}

// Update applies the editable fields of st onto the stored stage. The
// project and position of a stage never change through an edit.
func (s *stageService) Update(ctx context.Context, st *domain.Stage) (err error) {
	done := track(ctx, s.observer, "update-stage", map[string]any{"stage_id": st.ID})
	defer func() { done(err) }()

	if err := st.Validate(); err != nil {
		return invalid(err)
	}
	existing, err := s.stages.GetByID(ctx, st.ID)
	if err != nil {
		return err
	}
	existing.Name = st.Name
	existing.Description = st.Description
	existing.StartDate = st.StartDate
	existing.EndDate = st.EndDate
	existing.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	if err := s.stages.Update(ctx, existing); err != nil {
		return fmt.Errorf("updating stage %d: %w", st.ID, err)
	}
	*st = *existing
	return nil
}

func (s *stageService) Delete(ctx context.Context, id int64) (err error) {
	done := track(ctx, s.observer, "delete-stage", map[string]any{"stage_id": id})
	defer func() { done(err) }()

	return s.stages.Delete(ctx, id)
}
