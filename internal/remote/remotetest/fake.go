// Package remotetest provides an in-memory remote.Client whose calls can be
// failed, rejected or held open from a test.
package remotetest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/remote"
)

// Op names a remote call for scripting.
type Op string

const (
	OpFetchStages  Op = "fetch_stages"
	OpFetchTasks   Op = "fetch_tasks"
	OpCreateStage  Op = "create_stage"
	OpEditStage    Op = "edit_stage"
	OpDeleteStage  Op = "delete_stage"
	OpCreateTask   Op = "create_task"
	OpEditTask     Op = "edit_task"
	OpDeleteTask   Op = "delete_task"
	OpCompleteTask Op = "complete_task"
	OpUncheckTask  Op = "uncheck_task"
)

type outcome struct {
	err    error
	reject string
}

// Gate holds one call open until Release.
type Gate struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

// Entered is closed once the held call has started.
func (g *Gate) Entered() <-chan struct{} { return g.entered }

// Release lets the held call proceed. Safe to call more than once.
func (g *Gate) Release() { g.once.Do(func() { close(g.release) }) }

// Fake is a remote.Client backed by maps. The zero value is not usable;
// call New.
type Fake struct {
	mu        sync.Mutex
	nextID    int64
	projects  map[int64]domain.Project
	stages    map[int64]domain.Stage
	tasks     map[int64]domain.Task
	scripted  map[Op][]outcome
	gates     map[Op][]*Gate
	stageErrs map[int64]error
	calls     map[Op]int
}

func New() *Fake {
	return &Fake{
		projects:  make(map[int64]domain.Project),
		stages:    make(map[int64]domain.Stage),
		tasks:     make(map[int64]domain.Task),
		scripted:  make(map[Op][]outcome),
		gates:     make(map[Op][]*Gate),
		stageErrs: make(map[int64]error),
		calls:     make(map[Op]int),
	}
}

var _ remote.Client = (*Fake)(nil)

// AddProject seeds a project and returns it with its id.
func (f *Fake) AddProject(name string) domain.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p := domain.Project{ID: f.nextID, Name: name}
	f.projects[p.ID] = p
	return p
}

// AddStage seeds a stage under projectID.
func (f *Fake) AddStage(projectID int64, name string) domain.Stage {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s := domain.Stage{ID: f.nextID, ProjectID: projectID, Name: name, OrderIndex: len(f.stages)}
	f.stages[s.ID] = s
	return s
}

// AddTask seeds t under stageID, assigning its id.
func (f *Fake) AddTask(stageID int64, t domain.Task) domain.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t.ID = f.nextID
	t.StageID = stageID
	f.tasks[t.ID] = t
	return t
}

// Task returns the stored copy of a task.
func (f *Fake) Task(id int64) (domain.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	return t, ok
}

// Reject makes the next call to op answer with a failed envelope.
func (f *Fake) Reject(op Op, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripted[op] = append(f.scripted[op], outcome{reject: message})
}

// Fail makes the next call to op return err.
func (f *Fake) Fail(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripted[op] = append(f.scripted[op], outcome{err: err})
}

// FailTasksFor makes every FetchTasks for stageID fail until cleared with nil.
func (f *Fake) FailTasksFor(stageID int64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.stageErrs, stageID)
		return
	}
	f.stageErrs[stageID] = err
}

// Hold makes the next call to op block until the returned gate is released
// or the call's context ends.
func (f *Fake) Hold(op Op) *Gate {
	g := &Gate{entered: make(chan struct{}), release: make(chan struct{})}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gates[op] = append(f.gates[op], g)
	return g
}

// Calls reports how many times op was invoked.
func (f *Fake) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// enter records the call, waits on a gate if one is queued and returns the
// scripted outcome, if any.
func (f *Fake) enter(ctx context.Context, op Op) (*outcome, error) {
	f.mu.Lock()
	f.calls[op]++
	var gate *Gate
	if q := f.gates[op]; len(q) > 0 {
		gate, f.gates[op] = q[0], q[1:]
	}
	var out *outcome
	if q := f.scripted[op]; len(q) > 0 {
		out = &q[0]
		f.scripted[op] = q[1:]
	}
	f.mu.Unlock()

	if gate != nil {
		close(gate.entered)
		select {
		case <-gate.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if out != nil && out.err != nil {
		return nil, out.err
	}
	return out, nil
}

// mutation runs apply unless the call was scripted to fail or reject.
func (f *Fake) mutation(ctx context.Context, op Op, apply func() (int64, error)) (remote.Envelope, error) {
	out, err := f.enter(ctx, op)
	if err != nil {
		return remote.Envelope{}, err
	}
	if out != nil {
		return remote.Rejected(out.reject), nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id, err := apply()
	if err != nil {
		return remote.Rejected(err.Error()), nil
	}
	return remote.Ok(id), nil
}

func (f *Fake) ListProjects(ctx context.Context) ([]domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Project, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *Fake) GetProject(ctx context.Context, id int64) (domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return domain.Project{}, fmt.Errorf("project %d: %w", id, remote.ErrNotFound)
	}
	return p, nil
}

func (f *Fake) CreateProject(ctx context.Context, p domain.Project) (remote.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = f.nextID
	f.projects[p.ID] = p
	return remote.Ok(p.ID), nil
}

func (f *Fake) FetchStages(ctx context.Context, projectID int64) ([]domain.Stage, error) {
	out, err := f.enter(ctx, OpFetchStages)
	if err != nil {
		return nil, err
	}
	if out != nil {
		return nil, fmt.Errorf("%s", out.reject)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []domain.Stage
	for _, s := range f.stages {
		if s.ProjectID == projectID {
			list = append(list, s)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].OrderIndex != list[j].OrderIndex {
			return list[i].OrderIndex < list[j].OrderIndex
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (f *Fake) FetchTasks(ctx context.Context, stageID int64) ([]domain.Task, error) {
	out, err := f.enter(ctx, OpFetchTasks)
	if err != nil {
		return nil, err
	}
	if out != nil {
		return nil, fmt.Errorf("%s", out.reject)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.stageErrs[stageID]; err != nil {
		return nil, err
	}
	if _, ok := f.stages[stageID]; !ok {
		return nil, fmt.Errorf("stage %d: %w", stageID, remote.ErrNotFound)
	}
	var list []domain.Task
	for _, t := range f.tasks {
		if t.StageID == stageID {
			list = append(list, t)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (f *Fake) CreateStage(ctx context.Context, projectID int64, in remote.StageInput) (remote.Envelope, error) {
	return f.mutation(ctx, OpCreateStage, func() (int64, error) {
		if in.Name == "" {
			return 0, fmt.Errorf("stage name is required")
		}
		f.nextID++
		s := domain.Stage{
			ID: f.nextID, ProjectID: projectID, Name: in.Name, Description: in.Description,
			StartDate: in.StartDate, EndDate: in.EndDate, OrderIndex: len(f.stages),
		}
		f.stages[s.ID] = s
		return s.ID, nil
	})
}

func (f *Fake) EditStage(ctx context.Context, stageID int64, in remote.StageInput) (remote.Envelope, error) {
	return f.mutation(ctx, OpEditStage, func() (int64, error) {
		s, ok := f.stages[stageID]
		if !ok {
			return 0, fmt.Errorf("stage %d not found", stageID)
		}
		s.Name, s.Description, s.StartDate, s.EndDate = in.Name, in.Description, in.StartDate, in.EndDate
		f.stages[stageID] = s
		return stageID, nil
	})
}

func (f *Fake) DeleteStage(ctx context.Context, stageID int64) (remote.Envelope, error) {
	return f.mutation(ctx, OpDeleteStage, func() (int64, error) {
		if _, ok := f.stages[stageID]; !ok {
			return 0, fmt.Errorf("stage %d not found", stageID)
		}
		delete(f.stages, stageID)
		for id, t := range f.tasks {
			if t.StageID == stageID {
				delete(f.tasks, id)
			}
		}
		return stageID, nil
	})
}

func (f *Fake) CreateTask(ctx context.Context, stageID int64, in remote.TaskInput) (remote.Envelope, error) {
	return f.mutation(ctx, OpCreateTask, func() (int64, error) {
		if _, ok := f.stages[stageID]; !ok {
			return 0, fmt.Errorf("stage %d not found", stageID)
		}
		f.nextID++
		t := domain.Task{
			ID: f.nextID, StageID: stageID, Name: in.Name, Description: in.Description,
			StartDate: in.StartDate, ExpectedEndDate: in.ExpectedEndDate,
		}
		f.tasks[t.ID] = t
		return t.ID, nil
	})
}

func (f *Fake) EditTask(ctx context.Context, taskID int64, in remote.TaskInput) (remote.Envelope, error) {
	return f.mutation(ctx, OpEditTask, func() (int64, error) {
		t, ok := f.tasks[taskID]
		if !ok {
			return 0, fmt.Errorf("task %d not found", taskID)
		}
		t.Name, t.Description = in.Name, in.Description
		f.tasks[taskID] = t
		return taskID, nil
	})
}

func (f *Fake) DeleteTask(ctx context.Context, taskID int64) (remote.Envelope, error) {
	return f.mutation(ctx, OpDeleteTask, func() (int64, error) {
		if _, ok := f.tasks[taskID]; !ok {
			return 0, fmt.Errorf("task %d not found", taskID)
		}
		delete(f.tasks, taskID)
		return taskID, nil
	})
}

func (f *Fake) CompleteTask(ctx context.Context, taskID int64) (remote.Envelope, error) {
	return f.setCompleted(ctx, OpCompleteTask, taskID, true)
}

func (f *Fake) UncheckTask(ctx context.Context, taskID int64) (remote.Envelope, error) {
	return f.setCompleted(ctx, OpUncheckTask, taskID, false)
}

func (f *Fake) setCompleted(ctx context.Context, op Op, taskID int64, done bool) (remote.Envelope, error) {
	return f.mutation(ctx, op, func() (int64, error) {
		t, ok := f.tasks[taskID]
		if !ok {
			return 0, fmt.Errorf("task %d not found", taskID)
		}
		t.IsCompleted = done
		f.tasks[taskID] = t
		return taskID, nil
	})
}
