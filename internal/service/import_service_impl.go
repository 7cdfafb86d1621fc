package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/trestle/internal/db"
	"github.com/alexanderramin/trestle/internal/importer"
	"github.com/alexanderramin/trestle/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewImportService writes an import through uow so a failure part way
// leaves nothing behind.
func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportProject(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema) (result *ImportResult, err error) {
	fields := map[string]any{"project": schema.Project.Name}
	done := track(ctx, s.observer, "import-project", fields)
	defer func() { done(err) }()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	plan, err := importer.Convert(schema, time.Now())
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		stages := repository.NewSQLiteStageRepo(tx)
		tasks := repository.NewSQLiteTaskRepo(tx)

		if err := projects.Create(ctx, plan.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		for _, ps := range plan.Stages {
			ps.Stage.ProjectID = plan.Project.ID
			if err := stages.Create(ctx, ps.Stage); err != nil {
				return fmt.Errorf("creating stage %q: %w", ps.Ref, err)
			}
			for _, t := range ps.Tasks {
				t.StageID = ps.Stage.ID
				if err := tasks.Create(ctx, t); err != nil {
					return fmt.Errorf("creating task %q: %w", t.Name, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["stage_count"] = len(plan.Stages)
	fields["task_count"] = plan.TaskCount()
	return &ImportResult{
		Project:    plan.Project,
		StageCount: len(plan.Stages),
		TaskCount:  plan.TaskCount(),
	}, nil
}

func formatValidationErrors(errs []error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		b.WriteString("\n  - ")
		b.WriteString(e.Error())
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, b.String())
}
