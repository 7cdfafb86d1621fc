// Package progress derives schedule status for tasks and completion
// percentages for stages and projects. Everything here is pure: callers pass
// the current time explicitly.
package progress

import (
	"math"
	"time"

	"github.com/alexanderramin/trestle/internal/domain"
)

const day = 24 * time.Hour

// DeriveStatus labels a task's schedule health. First match wins:
// completed, delayed (now past the expected end), in progress (now on or
// after the start), not started. Dates compare by calendar day, each taken
// in its own location, so now counts as the caller's local day. A nil date
// sorts after every real date.
func DeriveStatus(isCompleted bool, start, end *time.Time, now time.Time) domain.TaskStatus {
	if isCompleted {
		return domain.TaskCompleted
	}
	today := domain.DateOf(now)
	if end != nil && today.After(domain.DateOf(*end)) {
		return domain.TaskDelayed
	}
	if start != nil && !today.Before(domain.DateOf(*start)) {
		return domain.TaskInProgress
	}
	return domain.TaskNotStarted
}

// OverdueDays returns whole days past the expected end date, rounded up.
// Completed tasks, tasks without an end date and tasks not yet due report 0.
func OverdueDays(isCompleted bool, end *time.Time, now time.Time) int {
	if isCompleted || end == nil {
		return 0
	}
	late := domain.DateOf(now).Sub(domain.DateOf(*end))
	if late <= 0 {
		return 0
	}
	return int(math.Ceil(float64(late) / float64(day)))
}

// Tag holds every derived field of a task.
type Tag struct {
	Status      domain.TaskStatus
	Progress    int
	OverdueDays int
}

// TagTask derives status, binary progress and overdue days for t.
func TagTask(t domain.Task, now time.Time) Tag {
	tag := Tag{
		Status:      DeriveStatus(t.IsCompleted, t.StartDate, t.ExpectedEndDate, now),
		OverdueDays: OverdueDays(t.IsCompleted, t.ExpectedEndDate, now),
	}
	if t.IsCompleted {
		tag.Progress = 100
	}
	return tag
}
