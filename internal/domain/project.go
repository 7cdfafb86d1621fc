package domain

import (
	"fmt"
	"strings"
	"time"
)

type Project struct {
	ID         int64
	Name       string
	Location   string
	StartDate  time.Time
	TargetDate *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the fields the record store requires.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is required")
	}
	if p.StartDate.IsZero() {
		return fmt.Errorf("project start date is required")
	}
	if p.TargetDate != nil && p.TargetDate.Before(p.StartDate) {
		return fmt.Errorf("project target date %s is before start date %s",
			p.TargetDate.Format(DateLayout), p.StartDate.Format(DateLayout))
	}
	return nil
}
