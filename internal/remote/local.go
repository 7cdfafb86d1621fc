package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/repository"
	"github.com/alexanderramin/trestle/internal/service"
)

// LocalRemote serves the Remote contract straight from the record
// services, for CLI use without a server.
type LocalRemote struct {
	projects service.ProjectService
	stages   service.StageService
	tasks    service.TaskService
}

func NewLocalRemote(projects service.ProjectService, stages service.StageService, tasks service.TaskService) *LocalRemote {
	return &LocalRemote{projects: projects, stages: stages, tasks: tasks}
}

var _ Client = (*LocalRemote)(nil)

func (l *LocalRemote) ListProjects(ctx context.Context) ([]domain.Project, error) {
	list, err := l.projects.List(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return derefAll(list), nil
}

func (l *LocalRemote) GetProject(ctx context.Context, id int64) (domain.Project, error) {
	p, err := l.projects.GetByID(ctx, id)
	if err != nil {
		return domain.Project{}, translate(err)
	}
	return *p, nil
}

func (l *LocalRemote) CreateProject(ctx context.Context, p domain.Project) (Envelope, error) {
	if err := l.projects.Create(ctx, &p); err != nil {
		return reject(err)
	}
	return Ok(p.ID), nil
}

func (l *LocalRemote) FetchStages(ctx context.Context, projectID int64) ([]domain.Stage, error) {
	list, err := l.stages.ListByProject(ctx, projectID)
	if err != nil {
		return nil, translate(err)
	}
	return derefAll(list), nil
}

func (l *LocalRemote) FetchTasks(ctx context.Context, stageID int64) ([]domain.Task, error) {
	list, err := l.tasks.ListByStage(ctx, stageID)
	if err != nil {
		return nil, translate(err)
	}
	return derefAll(list), nil
}

func (l *LocalRemote) CreateStage(ctx context.Context, projectID int64, in StageInput) (Envelope, error) {
	st := &domain.Stage{
		ProjectID:   projectID,
		Name:        in.Name,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
	if err := l.stages.Create(ctx, st); err != nil {
		return reject(err)
	}
	return Ok(st.ID), nil
}

func (l *LocalRemote) EditStage(ctx context.Context, stageID int64, in StageInput) (Envelope, error) {
	st := &domain.Stage{
		ID:          stageID,
		Name:        in.Name,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
	if err := l.stages.Update(ctx, st); err != nil {
		return reject(err)
	}
	return Ok(stageID), nil
}

func (l *LocalRemote) DeleteStage(ctx context.Context, stageID int64) (Envelope, error) {
	if err := l.stages.Delete(ctx, stageID); err != nil {
		return reject(err)
	}
	return Ok(stageID), nil
}

func (l *LocalRemote) CreateTask(ctx context.Context, stageID int64, in TaskInput) (Envelope, error) {
	t := &domain.Task{
		StageID:         stageID,
		Name:            in.Name,
		Description:     in.Description,
		StartDate:       in.StartDate,
		ExpectedEndDate: in.ExpectedEndDate,
	}
	if err := l.tasks.Create(ctx, t); err != nil {
		return reject(err)
	}
	return Ok(t.ID), nil
}

func (l *LocalRemote) EditTask(ctx context.Context, taskID int64, in TaskInput) (Envelope, error) {
	if _, err := l.tasks.Edit(ctx, taskID, in.Name, in.Description); err != nil {
		return reject(err)
	}
	return Ok(taskID), nil
}

func (l *LocalRemote) DeleteTask(ctx context.Context, taskID int64) (Envelope, error) {
	if err := l.tasks.Delete(ctx, taskID); err != nil {
		return reject(err)
	}
	return Ok(taskID), nil
}

func (l *LocalRemote) CompleteTask(ctx context.Context, taskID int64) (Envelope, error) {
	if _, err := l.tasks.Complete(ctx, taskID); err != nil {
		return reject(err)
	}
	return Ok(taskID), nil
}

func (l *LocalRemote) UncheckTask(ctx context.Context, taskID int64) (Envelope, error) {
	if _, err := l.tasks.Uncheck(ctx, taskID); err != nil {
		return reject(err)
	}
	return Ok(taskID), nil
}

// reject turns a service refusal into a failed envelope. Context errors
// stay errors so callers can tell a cancelled call from a refusal.
func reject(err error) (Envelope, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Envelope{}, err
	}
	return Rejected(err.Error()), nil
}

func translate(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

func derefAll[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, *v)
	}
	return out
}
