package testutil

import (
	"time"

	"github.com/alexanderramin/trestle/internal/domain"
)

// Day returns midnight UTC for the given calendar date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DayPtr is Day returning a pointer, for optional date fields.
func DayPtr(year int, month time.Month, day int) *time.Time {
	d := Day(year, month, day)
	return &d
}

// Project options
type ProjectOption func(*domain.Project)

func WithTargetDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.TargetDate = &d
	}
}

func WithLocation(loc string) ProjectOption {
	return func(p *domain.Project) {
		p.Location = loc
	}
}

func WithProjectStart(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = d
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		Name:      name,
		Location:  "Site A",
		StartDate: domain.DateOf(now.AddDate(0, -1, 0)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stage options
type StageOption func(*domain.Stage)

func WithStageDates(start, end time.Time) StageOption {
	return func(s *domain.Stage) {
		s.StartDate = &start
		s.EndDate = &end
	}
}

func WithOrderIndex(idx int) StageOption {
	return func(s *domain.Stage) {
		s.OrderIndex = idx
	}
}

func WithStageDescription(desc string) StageOption {
	return func(s *domain.Stage) {
		s.Description = desc
	}
}

func NewTestStage(projectID int64, name string, opts ...StageOption) *domain.Stage {
	now := time.Now().UTC().Truncate(time.Second)
	s := &domain.Stage{
		ProjectID: projectID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Task options
type TaskOption func(*domain.Task)

// WithTaskDates sets both ends of the task's date range.
func WithTaskDates(start, end time.Time) TaskOption {
	return func(t *domain.Task) {
		t.StartDate = &start
		t.ExpectedEndDate = &end
	}
}

func WithTaskStart(start time.Time) TaskOption {
	return func(t *domain.Task) {
		t.StartDate = &start
	}
}

func WithCompleted() TaskOption {
	return func(t *domain.Task) {
		now := time.Now().UTC().Truncate(time.Second)
		t.IsCompleted = true
		t.CompletedAt = &now
	}
}

func WithTaskDescription(desc string) TaskOption {
	return func(t *domain.Task) {
		t.Description = desc
	}
}

// WithTaskID presets an id for tasks that never touch the database.
func WithTaskID(id int64) TaskOption {
	return func(t *domain.Task) {
		t.ID = id
	}
}

func NewTestTask(stageID int64, name string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC().Truncate(time.Second)
	t := &domain.Task{
		StageID:   stageID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
