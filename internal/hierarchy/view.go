package hierarchy

import (
	"time"

	"github.com/alexanderramin/trestle/internal/contract"
	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/progress"
)

// stageMemo caches derived fields for one stage. It is valid while the
// stage version and the calendar day are unchanged.
type stageMemo struct {
	version  uint64
	day      time.Time
	progress int
	tasks    []contract.TaskView
}

func (n *stageNode) derived(day time.Time) *stageMemo {
	if m := n.memo; m != nil && m.version == n.version && m.day.Equal(day) {
		return m
	}
	m := &stageMemo{
		version:  n.version,
		day:      day,
		progress: progress.StageProgress(n.tasks),
		tasks:    make([]contract.TaskView, len(n.tasks)),
	}
	for i, t := range n.tasks {
		tag := progress.TagTask(t, day)
		m.tasks[i] = contract.TaskView{
			Task:        t,
			Status:      tag.Status,
			Progress:    tag.Progress,
			OverdueDays: tag.OverdueDays,
		}
	}
	n.memo = m
	return m
}

// Snapshot returns the current tree with every derived field. The result
// shares nothing mutable with the store.
func (s *Store) Snapshot() contract.Tree {
	now := s.clock()
	day := domain.DateOf(now)

	s.mu.Lock()
	defer s.mu.Unlock()

	tree := contract.Tree{
		ProjectID: s.projectID,
		State:     s.state,
		AsOf:      now,
		Stages:    make([]contract.StageView, 0, len(s.stages)),
	}
	if s.lastErr != nil {
		tree.LastError = s.lastErr.Error()
	}

	all := make([][]domain.Task, 0, len(s.stages))
	var flat []domain.Task
	for _, n := range s.stages {
		m := n.derived(day)
		sv := contract.StageView{
			Stage:    n.stage,
			Progress: m.progress,
			Pending:  s.pendStage[n.stage.ID] > 0,
			Tasks:    make([]contract.TaskView, len(m.tasks)),
		}
		if n.hydrateErr != nil {
			sv.HydrateErr = n.hydrateErr.Error()
		}
		copy(sv.Tasks, m.tasks)
		for i := range sv.Tasks {
			id := sv.Tasks[i].Task.ID
			_, toggling := s.completing[id]
			sv.Tasks[i].Pending = toggling || s.pendTask[id] > 0
		}
		tree.Stages = append(tree.Stages, sv)
		all = append(all, n.tasks)
		flat = append(flat, n.tasks...)
	}
	tree.Progress = progress.ProjectProgress(all)
	tree.Summary = progress.Summarize(flat, day)
	return tree
}
