package domain

import (
	"fmt"
	"strings"
	"time"
)

// Task is an atomic unit of work inside a stage. IsCompleted is the
// authoritative completion flag; status is derived at read time.
type Task struct {
	ID              int64
	StageID         int64
	Name            string
	Description     string
	StartDate       *time.Time
	ExpectedEndDate *time.Time
	IsCompleted     bool
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks name presence and date ordering.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("task name is required")
	}
	return validateRange("task", t.StartDate, t.ExpectedEndDate)
}

// MarkComplete sets the completion flag. Completing an already completed
// task keeps the original CompletedAt.
func (t *Task) MarkComplete(now time.Time) {
	if !t.IsCompleted {
		t.IsCompleted = true
		t.CompletedAt = &now
	}
	t.UpdatedAt = now
}

// Uncheck clears the completion flag.
func (t *Task) Uncheck(now time.Time) {
	t.IsCompleted = false
	t.CompletedAt = nil
	t.UpdatedAt = now
}

// Rename applies an edit. Only name and description are editable.
func (t *Task) Rename(name, description string, now time.Time) {
	t.Name = nameOr(name, t.Name)
	t.Description = description
	t.UpdatedAt = now
}

// nameOr returns the trimmed name, or current when the trimmed name is blank.
func nameOr(name, current string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return current
}
