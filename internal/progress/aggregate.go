package progress

import (
	"time"

	"github.com/alexanderramin/trestle/internal/domain"
)

// StageProgress is the rounded percentage of completed tasks, 0 for an empty
// stage. It counts IsCompleted flags only: a delayed task contributes once it
// is completed, never because of its derived status. Weighting is by task
// count, not by task duration.
func StageProgress(tasks []domain.Task) int {
	done := 0
	for _, t := range tasks {
		if t.IsCompleted {
			done++
		}
	}
	return Percent(done, len(tasks))
}

// ProjectProgress applies the stage formula to the union of every stage's
// tasks rather than averaging stage percentages.
func ProjectProgress(stages [][]domain.Task) int {
	done, total := 0, 0
	for _, tasks := range stages {
		for _, t := range tasks {
			total++
			if t.IsCompleted {
				done++
			}
		}
	}
	return Percent(done, total)
}

// Percent rounds 100*done/total half up using integer arithmetic so the
// result is reproducible across platforms. total <= 0 yields 0.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	if done < 0 {
		done = 0
	}
	if done > total {
		done = total
	}
	return (200*done + total) / (2 * total)
}

// Summary counts tasks by derived status.
type Summary struct {
	Total      int
	Completed  int
	InProgress int
	Delayed    int
	NotStarted int
}

// Summarize derives each task's status at now and tallies them.
func Summarize(tasks []domain.Task, now time.Time) Summary {
	var s Summary
	for _, t := range tasks {
		s.Total++
		switch DeriveStatus(t.IsCompleted, t.StartDate, t.ExpectedEndDate, now) {
		case domain.TaskCompleted:
			s.Completed++
		case domain.TaskInProgress:
			s.InProgress++
		case domain.TaskDelayed:
			s.Delayed++
		default:
			s.NotStarted++
		}
	}
	return s
}
