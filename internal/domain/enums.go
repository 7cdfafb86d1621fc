package domain

// TaskStatus is the schedule-health label derived for a task. It is never
// persisted; see progress.DeriveStatus.
type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not_started"
	TaskInProgress TaskStatus = "in_progress"
	TaskDelayed    TaskStatus = "delayed"
	TaskCompleted  TaskStatus = "completed"
)

// ValidTaskStatuses is the canonical set of derived task statuses.
var ValidTaskStatuses = map[TaskStatus]bool{
	TaskNotStarted: true,
	TaskInProgress: true,
	TaskDelayed:    true,
	TaskCompleted:  true,
}

func (s TaskStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the four derived statuses.
func (s TaskStatus) IsValid() bool {
	return ValidTaskStatuses[s]
}

// LoadState describes what a project's cached stage tree currently holds.
type LoadState string

const (
	LoadNotLoaded LoadState = "not_loaded"
	LoadLoading   LoadState = "loading"
	LoadLoaded    LoadState = "loaded"
	LoadEmpty     LoadState = "empty"
	LoadFailed    LoadState = "failed"
)

func (s LoadState) String() string {
	return string(s)
}
