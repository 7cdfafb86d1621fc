package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/alexanderramin/trestle/internal/api"
	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/remote"
	"github.com/alexanderramin/trestle/internal/repository"
	"github.com/alexanderramin/trestle/internal/service"
	"github.com/alexanderramin/trestle/internal/testutil"
	"github.com/stretchr/testify/require"
)

// Every CLI test runs on 2024-01-15.
var today = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	// Keep a developer's ~/.trestle/config.yaml out of the tests.
	t.Setenv("HOME", t.TempDir())

	database := testutil.NewTestDB(t)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	stageRepo := repository.NewSQLiteStageRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)

	svc := &api.Services{
		Projects: service.NewProjectService(projectRepo),
		Stages:   service.NewStageService(projectRepo, stageRepo),
		Tasks:    service.NewTaskService(stageRepo, taskRepo),
	}
	return &App{
		Client:        remote.NewLocalRemote(svc.Projects, svc.Stages, svc.Tasks),
		Import:        service.NewImportService(testutil.NewTestUoW(database)),
		Local:         svc,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		IsInteractive: func() bool { return false },
		Now:           func() time.Time { return today },
	}
}

type site struct {
	project *domain.Project
	framing *domain.Stage
	roofing *domain.Stage

	walls, floor, stairs *domain.Task
	trusses              *domain.Task
}

// seedSite creates a project with a framing stage (one task overdue, one
// done, one upcoming) and a roofing stage with one undated task.
func seedSite(t *testing.T, app *App) site {
	t.Helper()
	ctx := context.Background()
	var s site

	s.project = testutil.NewTestProject("Riverside Duplex", testutil.WithTargetDate(testutil.Day(2024, 6, 30)))
	require.NoError(t, app.Local.Projects.Create(ctx, s.project))

	s.framing = testutil.NewTestStage(s.project.ID, "Framing",
		testutil.WithStageDates(testutil.Day(2024, 1, 1), testutil.Day(2024, 1, 31)),
		testutil.WithStageDescription("Walls, floors and stairs"))
	require.NoError(t, app.Local.Stages.Create(ctx, s.framing))
	s.roofing = testutil.NewTestStage(s.project.ID, "Roofing")
	require.NoError(t, app.Local.Stages.Create(ctx, s.roofing))

	s.walls = testutil.NewTestTask(s.framing.ID, "Raise walls",
		testutil.WithTaskDates(testutil.Day(2024, 1, 1), testutil.Day(2024, 1, 10)))
	s.floor = testutil.NewTestTask(s.framing.ID, "Floor joists",
		testutil.WithTaskDates(testutil.Day(2024, 1, 1), testutil.Day(2024, 1, 5)), testutil.WithCompleted())
	s.stairs = testutil.NewTestTask(s.framing.ID, "Stairs",
		testutil.WithTaskDates(testutil.Day(2024, 1, 12), testutil.Day(2024, 1, 20)),
		testutil.WithTaskDescription("Main stair only"))
	s.trusses = testutil.NewTestTask(s.roofing.ID, "Lay trusses")
	for _, task := range []*domain.Task{s.walls, s.floor, s.stairs, s.trusses} {
		require.NoError(t, app.Local.Tasks.Create(ctx, task))
	}
	return s
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

func stripANSI(s string) string { return ansiRe.ReplaceAllString(s, "") }

func id(n int64) string { return strconv.FormatInt(n, 10) }
