package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/repository"
)

type taskService struct {
	stages   repository.StageRepo
	tasks    repository.TaskRepo
	observer UseCaseObserver
}

func NewTaskService(stages repository.StageRepo, tasks repository.TaskRepo, observers ...UseCaseObserver) TaskService {
	return &taskService{stages: stages, tasks: tasks, observer: useCaseObserverOrNoop(observers)}
}

func (s *taskService) Create(ctx context.Context, t *domain.Task) (err error) {
	done := track(ctx, s.observer, "create-task", map[string]any{"stage_id": t.StageID, "name": t.Name})
	defer func() { done(err) }()

	if err := t.Validate(); err != nil {
		return invalid(err)
	}
	if _, err := s.stages.GetByID(ctx, t.StageID); err != nil {
		return err
	}
	now := time.Now().UTC().Truncate(time.Second)
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.IsCompleted && t.CompletedAt == nil {
		t.CompletedAt = &now
	}
	return s.tasks.Create(ctx, t)
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) ListByStage(ctx context.Context, stageID int64) ([]*domain.Task, error) {
	if _, err := s.stages.GetByID(ctx, stageID); err != nil {
		return nil, err
	}
	return s.tasks.ListByStage(ctx, stageID)
}

func (s *taskService) ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) Edit(ctx context.Context, id int64, name, description string) (task *domain.Task, err error) {
	done := track(ctx, s.observer, "edit-task", map[string]any{"task_id": id})
	defer func() { done(err) }()

	return s.mutate(ctx, id, func(t *domain.Task, now time.Time) error {
		t.Rename(name, description, now)
		return t.Validate()
	})
}

func (s *taskService) Complete(ctx context.Context, id int64) (task *domain.Task, err error) {
	done := track(ctx, s.observer, "complete-task", map[string]any{"task_id": id})
	defer func() { done(err) }()

	return s.mutate(ctx, id, func(t *domain.Task, now time.Time) error {
		t.MarkComplete(now)
		return nil
	})
}

func (s *taskService) Uncheck(ctx context.Context, id int64) (task *domain.Task, err error) {
	done := track(ctx, s.observer, "uncheck-task", map[string]any{"task_id": id})
	defer func() { done(err) }()

	return s.mutate(ctx, id, func(t *domain.Task, now time.Time) error {
		t.Uncheck(now)
		return nil
	})
}

func (s *taskService) Delete(ctx context.Context, id int64) (err error) {
	done := track(ctx, s.observer, "delete-task", map[string]any{"task_id": id})
	defer func() { done(err) }()

	return s.tasks.Delete(ctx, id)
}

// mutate loads a task, applies change and persists it.
func (s *taskService) mutate(ctx context.Context, id int64, change func(*domain.Task, time.Time) error) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(t, time.Now().UTC().Truncate(time.Second)); err != nil {
		return nil, invalid(err)
	}
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("updating task %d: %w", id, err)
	}
	return t, nil
}
