package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/trestle/internal/db"
	"github.com/alexanderramin/trestle/internal/repository"
	"github.com/alexanderramin/trestle/internal/testutil"
)

func setupRepos(t *testing.T) (
	repository.ProjectRepo,
	repository.StageRepo,
	repository.TaskRepo,
	db.UnitOfWork,
) {
	database := testutil.NewTestDB(t)
	return repository.NewSQLiteProjectRepo(database),
		repository.NewSQLiteStageRepo(database),
		repository.NewSQLiteTaskRepo(database),
		testutil.NewTestUoW(database)
}

// recordingObserver keeps every event for assertions.
type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}
