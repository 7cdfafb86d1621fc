package contract

import (
	"time"

	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/progress"
)

// Tree is an immutable snapshot of one project's stages and tasks with
// every derived field filled in.
type Tree struct {
	ProjectID int64
	State     domain.LoadState
	Stages    []StageView
	// Progress is computed over the union of all tasks.
	Progress  int
	Summary   progress.Summary
	LastError string
	AsOf      time.Time
}

type StageView struct {
	Stage    domain.Stage
	Progress int
	Tasks    []TaskView
	// Pending is set while a stage mutation awaits the remote.
	Pending bool
	// HydrateErr holds the task fetch error when the stage was kept empty.
	HydrateErr string
}

type TaskView struct {
	Task        domain.Task
	Status      domain.TaskStatus
	Progress    int
	OverdueDays int
	Pending     bool
}

// Task looks up a task view by id.
func (t Tree) Task(id int64) (TaskView, bool) {
	for _, s := range t.Stages {
		for _, tv := range s.Tasks {
			if tv.Task.ID == id {
				return tv, true
			}
		}
	}
	return TaskView{}, false
}

// Stage looks up a stage view by id.
func (t Tree) Stage(id int64) (StageView, bool) {
	for _, s := range t.Stages {
		if s.Stage.ID == id {
			return s, true
		}
	}
	return StageView{}, false
}

// TaskCount is the number of tasks across all stages.
func (t Tree) TaskCount() int {
	n := 0
	for _, s := range t.Stages {
		n += len(s.Tasks)
	}
	return n
}
