package hierarchy

import "fmt"

// Operation identifies a store mutation for policy lookup.
type Operation string

const (
	OpToggleTask  Operation = "toggle_task"
	OpCreateStage Operation = "create_stage"
	OpEditStage   Operation = "edit_stage"
	OpDeleteStage Operation = "delete_stage"
	OpCreateTask  Operation = "create_task"
	OpEditTask    Operation = "edit_task"
	OpDeleteTask  Operation = "delete_task"
)

// Operations lists every mutation a Policy must cover.
var Operations = []Operation{
	OpToggleTask,
	OpCreateStage, OpEditStage, OpDeleteStage,
	OpCreateTask, OpEditTask, OpDeleteTask,
}

// Strategy is what the store does with its cache once the remote answers.
type Strategy int

const (
	// StrategyKeep leaves the cache as it is.
	StrategyKeep Strategy = iota
	// StrategyRevertLocal undoes an optimistic local change.
	StrategyRevertLocal
	// StrategyRefetchProject reloads the stage list and every stage's tasks.
	StrategyRefetchProject
	// StrategyRefetchStage reloads the tasks of the affected stage only.
	StrategyRefetchStage
	// StrategySurface records the error and leaves the cache untouched.
	StrategySurface
)

func (s Strategy) String() string {
	switch s {
	case StrategyKeep:
		return "keep"
	case StrategyRevertLocal:
		return "revert_local"
	case StrategyRefetchProject:
		return "refetch_project"
	case StrategyRefetchStage:
		return "refetch_stage"
	case StrategySurface:
		return "surface"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Rule declares how one operation is reconciled.
type Rule struct {
	// Optimistic applies the change locally before the remote call.
	Optimistic bool
	OnSuccess  Strategy
	OnFailure  Strategy
}

// Policy maps every operation to its rule.
type Policy map[Operation]Rule

// DefaultPolicy: toggles flip optimistically and revert on failure;
// structural changes wait for the remote, then refetch what they touched.
func DefaultPolicy() Policy {
	return Policy{
		OpToggleTask:  {Optimistic: true, OnSuccess: StrategyKeep, OnFailure: StrategyRevertLocal},
		OpCreateStage: {OnSuccess: StrategyRefetchProject, OnFailure: StrategySurface},
		OpEditStage:   {OnSuccess: StrategyRefetchProject, OnFailure: StrategySurface},
		OpDeleteStage: {OnSuccess: StrategyRefetchProject, OnFailure: StrategySurface},
		OpCreateTask:  {OnSuccess: StrategyRefetchStage, OnFailure: StrategySurface},
		OpEditTask:    {OnSuccess: StrategyRefetchStage, OnFailure: StrategySurface},
		OpDeleteTask:  {OnSuccess: StrategyRefetchStage, OnFailure: StrategySurface},
	}
}

// Rule returns the rule for op. Unknown operations get the most
// conservative rule: no optimism, full refetch on success.
func (p Policy) Rule(op Operation) Rule {
	if r, ok := p[op]; ok {
		return r
	}
	return Rule{OnSuccess: StrategyRefetchProject, OnFailure: StrategySurface}
}

// Validate checks that every operation has a rule and that rules are
// coherent: only optimistic rules may revert, and an optimistic rule must
// undo its change on failure.
func (p Policy) Validate() error {
	for _, op := range Operations {
		r, ok := p[op]
		if !ok {
			return fmt.Errorf("policy: no rule for %s", op)
		}
		if r.OnSuccess == StrategyRevertLocal {
			return fmt.Errorf("policy: %s cannot revert on success", op)
		}
		if r.Optimistic && r.OnFailure != StrategyRevertLocal && r.OnFailure != StrategyRefetchProject && r.OnFailure != StrategyRefetchStage {
			return fmt.Errorf("policy: optimistic %s must revert or refetch on failure, got %s", op, r.OnFailure)
		}
		if !r.Optimistic && r.OnFailure == StrategyRevertLocal {
			return fmt.Errorf("policy: %s has nothing to revert", op)
		}
	}
	return nil
}
