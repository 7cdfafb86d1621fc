package hierarchy

import (
	"context"
	"fmt"

	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/remote"
)

// ToggleTaskCompletion flips a task's completion flag. With the default
// policy the flip shows immediately and is undone if the remote fails.
// While a toggle for the task is in flight further toggles are ignored.
func (s *Store) ToggleTaskCompletion(ctx context.Context, taskID int64) (Outcome, error) {
	rule := s.policy.Rule(OpToggleTask)

	s.mu.Lock()
	node, idx := s.taskLocked(taskID)
	if node == nil {
		s.mu.Unlock()
		return OutcomeNoop, nil
	}
	if _, busy := s.completing[taskID]; busy {
		s.mu.Unlock()
		s.logger.Debug("toggle ignored; already in flight", "task_id", taskID)
		return OutcomeIgnored, nil
	}
	prior := node.tasks[idx].IsCompleted
	target := !prior
	stageID := node.stage.ID
	s.completing[taskID] = inflightToggle{target: target, optimistic: rule.Optimistic}
	if rule.Optimistic {
		node.tasks[idx].IsCompleted = target
		s.touchLocked(node)
	}
	s.mu.Unlock()
	s.notify()

	var env remote.Envelope
	var err error
	if target {
		env, err = s.remote.CompleteTask(ctx, taskID)
	} else {
		env, err = s.remote.UncheckTask(ctx, taskID)
	}
	failure := mutationFailure(OpToggleTask, env, err)

	s.mu.Lock()
	delete(s.completing, taskID)
	outcome := OutcomeApplied
	switch {
	case failure == nil:
		s.lastErr = nil
		s.confirmed[taskID] = confirmedToggle{seq: s.nextSeqLocked(), done: target}
		if !rule.Optimistic {
			s.setCompletedLocked(taskID, target)
		}
	case rule.Optimistic:
		s.lastErr = failure
		s.setCompletedLocked(taskID, prior)
		outcome = OutcomeReverted
		s.logger.Info("toggle reverted", "task_id", taskID, "error", failure.Message)
	default:
		s.lastErr = failure
		outcome = OutcomeRejected
	}
	s.mu.Unlock()
	s.notify()

	strategy := rule.OnSuccess
	if failure != nil {
		strategy = rule.OnFailure
	}
	refreshErr := s.reconcile(ctx, OpToggleTask, strategy, stageID)
	if failure != nil {
		if refreshErr != nil {
			s.logger.Warn("refetch after failed toggle also failed", "task_id", taskID, "error", refreshErr)
		}
		return outcome, failure
	}
	return outcome, refreshErr
}

func (s *Store) setCompletedLocked(taskID int64, done bool) {
	if n, i := s.taskLocked(taskID); n != nil && n.tasks[i].IsCompleted != done {
		n.tasks[i].IsCompleted = done
		s.touchLocked(n)
	}
}

// CreateStage asks the remote to create a stage, then reloads the project.
func (s *Store) CreateStage(ctx context.Context, in remote.StageInput) (Outcome, error) {
	return s.run(ctx, mutation{
		op:   OpCreateStage,
		lane: fmt.Sprintf("project:%d", s.projectID),
		call: func(ctx context.Context) (remote.Envelope, error) {
			return s.remote.CreateStage(ctx, s.projectID, in)
		},
	})
}

func (s *Store) EditStage(ctx context.Context, stageID int64, in remote.StageInput) (Outcome, error) {
	return s.run(ctx, mutation{
		op:           OpEditStage,
		lane:         stageLane(stageID),
		stageID:      stageID,
		pendingStage: stageID,
		requireStage: true,
		call: func(ctx context.Context) (remote.Envelope, error) {
			return s.remote.EditStage(ctx, stageID, in)
		},
	})
}

// DeleteStage removes the stage from the cache as soon as the remote
// confirms. Deleting the last stage leaves the store in state empty.
func (s *Store) DeleteStage(ctx context.Context, stageID int64) (Outcome, error) {
	return s.run(ctx, mutation{
		op:           OpDeleteStage,
		lane:         stageLane(stageID),
		stageID:      stageID,
		pendingStage: stageID,
		requireStage: true,
		call: func(ctx context.Context) (remote.Envelope, error) {
			return s.remote.DeleteStage(ctx, stageID)
		},
		confirmed: func() {
			s.goneStages[stageID] = true
			kept := s.stages[:0]
			for _, n := range s.stages {
				if n.stage.ID != stageID {
					kept = append(kept, n)
				}
			}
			s.stages = kept
			if s.state == domain.LoadLoaded {
				s.settleStateLocked()
			}
		},
	})
}

// CreateTask creates a task in stageID and refetches that stage.
func (s *Store) CreateTask(ctx context.Context, stageID int64, in remote.TaskInput) (Outcome, error) {
	return s.run(ctx, mutation{
		op:           OpCreateTask,
		lane:         stageLane(stageID),
		stageID:      stageID,
		pendingStage: stageID,
		requireStage: true,
		call: func(ctx context.Context) (remote.Envelope, error) {
			return s.remote.CreateTask(ctx, stageID, in)
		},
	})
}

// EditTask renames a task. The owning stage is found in the cache.
func (s *Store) EditTask(ctx context.Context, taskID int64, in remote.TaskInput) (Outcome, error) {
	return s.run(ctx, mutation{
		op:          OpEditTask,
		lane:        taskLane(taskID),
		pendingTask: taskID,
		call: func(ctx context.Context) (remote.Envelope, error) {
			return s.remote.EditTask(ctx, taskID, in)
		},
	})
}

// DeleteTask removes the task from the cache as soon as the remote confirms.
func (s *Store) DeleteTask(ctx context.Context, taskID int64) (Outcome, error) {
	return s.run(ctx, mutation{
		op:          OpDeleteTask,
		lane:        taskLane(taskID),
		pendingTask: taskID,
		call: func(ctx context.Context) (remote.Envelope, error) {
			return s.remote.DeleteTask(ctx, taskID)
		},
		confirmed: func() {
			s.goneTasks[taskID] = true
			if n, i := s.taskLocked(taskID); n != nil {
				n.tasks = append(n.tasks[:i:i], n.tasks[i+1:]...)
				s.touchLocked(n)
			}
		},
	})
}

func stageLane(id int64) string { return fmt.Sprintf("stage:%d", id) }
func taskLane(id int64) string  { return fmt.Sprintf("task:%d", id) }

// mutation describes a non-optimistic change.
type mutation struct {
	op   Operation
	lane string
	// stageID is the stage to refetch; task mutations resolve it from the cache.
	stageID      int64
	pendingStage int64
	pendingTask  int64
	// requireStage makes an unknown stageID a no-op.
	requireStage bool
	call         func(ctx context.Context) (remote.Envelope, error)
	// confirmed runs under the lock once the remote reports success.
	confirmed func()
}

func (s *Store) run(ctx context.Context, m mutation) (Outcome, error) {
	release, err := s.lanes.acquire(ctx, m.lane)
	if err != nil {
		return OutcomeRejected, &MutationError{Op: m.op, Message: err.Error(), Err: err}
	}
	defer release()

	rule := s.policy.Rule(m.op)

	s.mu.Lock()
	if m.requireStage && s.stageLocked(m.stageID) == nil {
		s.mu.Unlock()
		return OutcomeNoop, nil
	}
	if m.pendingTask != 0 {
		n, _ := s.taskLocked(m.pendingTask)
		if n == nil {
			s.mu.Unlock()
			return OutcomeNoop, nil
		}
		m.stageID = n.stage.ID
		s.pendTask[m.pendingTask]++
	}
	if m.pendingStage != 0 {
		s.pendStage[m.pendingStage]++
	}
	s.mu.Unlock()
	s.notify()

	env, err := m.call(ctx)
	failure := mutationFailure(m.op, env, err)

	s.mu.Lock()
	decrement(s.pendTask, m.pendingTask)
	decrement(s.pendStage, m.pendingStage)
	if failure != nil {
		s.lastErr = failure
	} else {
		s.lastErr = nil
		if m.confirmed != nil {
			m.confirmed()
		}
	}
	s.mu.Unlock()
	s.notify()

	if failure != nil {
		s.logger.Info("mutation rejected", "op", m.op, "error", failure.Message)
		if err := s.reconcile(ctx, m.op, rule.OnFailure, m.stageID); err != nil {
			s.logger.Warn("refetch after failed mutation also failed", "op", m.op, "error", err)
		}
		return OutcomeRejected, failure
	}
	return OutcomeApplied, s.reconcile(ctx, m.op, rule.OnSuccess, m.stageID)
}

func decrement(m map[int64]int, id int64) {
	if id == 0 {
		return
	}
	if m[id] <= 1 {
		delete(m, id)
		return
	}
	m[id]--
}

// reconcile applies a refetch strategy. Keep, revert and surface need no
// remote call here.
func (s *Store) reconcile(ctx context.Context, op Operation, strategy Strategy, stageID int64) error {
	switch strategy {
	case StrategyRefetchProject:
		return s.refreshProject(ctx, op)
	case StrategyRefetchStage:
		if stageID == 0 {
			return s.refreshProject(ctx, op)
		}
		return s.refreshStage(ctx, op, stageID)
	default:
		return nil
	}
}

// mutationFailure folds a transport error or a rejected envelope into a
// MutationError. It returns nil on success.
func mutationFailure(op Operation, env remote.Envelope, err error) *MutationError {
	if err != nil {
		return &MutationError{Op: op, Message: err.Error(), Err: err}
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("%s was rejected", op)
		}
		return &MutationError{Op: op, Message: msg}
	}
	return nil
}
