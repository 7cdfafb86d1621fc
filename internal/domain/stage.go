package domain

import (
	"fmt"
	"strings"
	"time"
)

// Stage is a phase of a project. Its progress is derived from its tasks
// and never stored.
type Stage struct {
	ID          int64
	ProjectID   int64
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	OrderIndex  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks name presence and date ordering.
func (s *Stage) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("stage name is required")
	}
	return validateRange("stage", s.StartDate, s.EndDate)
}

func validateRange(what string, start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%s end date %s is before start date %s",
			what, end.Format(DateLayout), start.Format(DateLayout))
	}
	return nil
}
