package cli

import (
	"fmt"

	"github.com/alexanderramin/trestle/internal/api"
	"github.com/alexanderramin/trestle/internal/db"
	"github.com/alexanderramin/trestle/internal/remote"
	"github.com/alexanderramin/trestle/internal/repository"
	"github.com/alexanderramin/trestle/internal/service"
)

// connect points the App at a trestle server when a remote URL is
// configured, otherwise at the local SQLite database.
func (a *App) connect() error {
	if a.Config.Remote() {
		a.Client = remote.NewHTTPRemote(a.Config.RemoteURL,
			remote.WithTimeout(a.Config.RequestTimeout()),
			remote.WithRateLimit(a.Config.RateLimit),
		)
		a.Logger.Debug("using remote server", "url", a.Config.RemoteURL)
		return nil
	}

	database, err := db.OpenDB(a.Config.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.closers = append(a.closers, database.Close)

	var observers []service.UseCaseObserver
	if a.Config.LogCalls {
		observers = append(observers, service.NewLogUseCaseObserver(a.Logger))
	}

	projectRepo := repository.NewSQLiteProjectRepo(database)
	stageRepo := repository.NewSQLiteStageRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)

	svc := &api.Services{
		Projects: service.NewProjectService(projectRepo, observers...),
		Stages:   service.NewStageService(projectRepo, stageRepo, observers...),
		Tasks:    service.NewTaskService(stageRepo, taskRepo, observers...),
	}
	a.Local = svc
	a.Import = service.NewImportService(db.NewSQLiteUnitOfWork(database), observers...)
	a.Client = remote.NewLocalRemote(svc.Projects, svc.Stages, svc.Tasks)
	a.Logger.Debug("using local database", "path", a.Config.DBPath)
	return nil
}
