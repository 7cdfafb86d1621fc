// Package contract holds the shapes exchanged across process and layer
// boundaries: JSON bodies of the REST API and the tagged tree the
// presentation layer renders.
package contract

import "github.com/alexanderramin/trestle/internal/domain"

// Project is the JSON form of domain.Project.
type Project struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Location   string `json:"location"`
	StartDate  string `json:"start_date"`
	TargetDate string `json:"target_date,omitempty"`
}

// Stage is the JSON form of domain.Stage.
type Stage struct {
	ID          int64  `json:"id"`
	ProjectID   int64  `json:"project_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	OrderIndex  int    `json:"order_index"`
}

// Task is the JSON form of domain.Task. Dates that fail to parse on the
// way in become nil instead of rejecting the row.
type Task struct {
	ID              int64  `json:"id"`
	StageID         int64  `json:"stage_id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	StartDate       string `json:"start_date,omitempty"`
	ExpectedEndDate string `json:"expected_end_date,omitempty"`
	IsCompleted     bool   `json:"is_completed"`
}

type ProjectRequest struct {
	Name       string `json:"name" binding:"required,max=200"`
	Location   string `json:"location" binding:"max=200"`
	StartDate  string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	TargetDate string `json:"target_date" binding:"omitempty,datetime=2006-01-02"`
}

type StageRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
	StartDate   string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// TaskRequest creates a task. Edits only read Name and Description.
type TaskRequest struct {
	Name            string `json:"name" binding:"required,max=200"`
	Description     string `json:"description"`
	StartDate       string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	ExpectedEndDate string `json:"expected_end_date" binding:"omitempty,datetime=2006-01-02"`
}

// MutationResponse is the uniform answer to every mutating request.
type MutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	ID      int64  `json:"id,omitempty"`
}

func ProjectFromDomain(p *domain.Project) Project {
	return Project{
		ID:         p.ID,
		Name:       p.Name,
		Location:   p.Location,
		StartDate:  p.StartDate.Format(domain.DateLayout),
		TargetDate: domain.FormatDate(p.TargetDate),
	}
}

func (p Project) ToDomain() domain.Project {
	out := domain.Project{
		ID:         p.ID,
		Name:       p.Name,
		Location:   p.Location,
		TargetDate: domain.ParseDate(p.TargetDate),
	}
	if start := domain.ParseDate(p.StartDate); start != nil {
		out.StartDate = *start
	}
	return out
}

func StageFromDomain(s *domain.Stage) Stage {
	return Stage{
		ID:          s.ID,
		ProjectID:   s.ProjectID,
		Name:        s.Name,
		Description: s.Description,
		StartDate:   domain.FormatDate(s.StartDate),
		EndDate:     domain.FormatDate(s.EndDate),
		OrderIndex:  s.OrderIndex,
	}
}

func (s Stage) ToDomain() domain.Stage {
	return domain.Stage{
		ID:          s.ID,
		ProjectID:   s.ProjectID,
		Name:        s.Name,
		Description: s.Description,
		StartDate:   domain.ParseDate(s.StartDate),
		EndDate:     domain.ParseDate(s.EndDate),
		OrderIndex:  s.OrderIndex,
	}
}

func TaskFromDomain(t *domain.Task) Task {
	return Task{
		ID:              t.ID,
		StageID:         t.StageID,
		Name:            t.Name,
		Description:     t.Description,
		StartDate:       domain.FormatDate(t.StartDate),
		ExpectedEndDate: domain.FormatDate(t.ExpectedEndDate),
		IsCompleted:     t.IsCompleted,
	}
}

func (t Task) ToDomain() domain.Task {
	return domain.Task{
		ID:              t.ID,
		StageID:         t.StageID,
		Name:            t.Name,
		Description:     t.Description,
		StartDate:       domain.ParseDate(t.StartDate),
		ExpectedEndDate: domain.ParseDate(t.ExpectedEndDate),
		IsCompleted:     t.IsCompleted,
	}
}
