package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/trestle/internal/domain"
)

// Plan is a converted import ready for persistence. Ids are left zero; the
// caller assigns ProjectID and StageID as rows are inserted.
type Plan struct {
	Project *domain.Project
	Stages  []PlannedStage
}

// PlannedStage pairs a stage with the tasks that referenced it.
type PlannedStage struct {
	Ref   string
	Stage *domain.Stage
	Tasks []*domain.Task
}

// TaskCount returns the number of tasks across all stages.
func (p *Plan) TaskCount() int {
	n := 0
	for _, s := range p.Stages {
		n += len(s.Tasks)
	}
	return n
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema, now time.Time) (*Plan, error) {
	now = now.UTC().Truncate(time.Second)

	start := domain.ParseDate(schema.Project.StartDate)
	if start == nil {
		return nil, fmt.Errorf("parsing start_date %q", schema.Project.StartDate)
	}

	project := &domain.Project{
		Name:       schema.Project.Name,
		Location:   schema.Project.Location,
		StartDate:  *start,
		TargetDate: optionalDate(schema.Project.TargetDate),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	plan := &Plan{Project: project, Stages: make([]PlannedStage, 0, len(schema.Stages))}
	byRef := make(map[string]int, len(schema.Stages))

	for i, s := range schema.Stages {
		order := i
		if s.Order != nil {
			order = *s.Order
		}
		byRef[s.Ref] = len(plan.Stages)
		plan.Stages = append(plan.Stages, PlannedStage{
			Ref: s.Ref,
			Stage: &domain.Stage{
				Name:        s.Name,
				Description: s.Description,
				StartDate:   optionalDate(s.StartDate),
				EndDate:     optionalDate(s.EndDate),
				OrderIndex:  order,
				CreatedAt:   now,
				UpdatedAt:   now,
			},
		})
	}

	for _, t := range schema.Tasks {
		idx, ok := byRef[t.StageRef]
		if !ok {
			return nil, fmt.Errorf("task %q references unknown stage %q", t.Name, t.StageRef)
		}
		task := &domain.Task{
			Name:            t.Name,
			Description:     t.Description,
			StartDate:       optionalDate(t.StartDate),
			ExpectedEndDate: optionalDate(t.ExpectedEndDate),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if t.Completed {
			task.MarkComplete(now)
		}
		plan.Stages[idx].Tasks = append(plan.Stages[idx].Tasks, task)
	}

	return plan, nil
}

func optionalDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	return domain.ParseDate(*s)
}
