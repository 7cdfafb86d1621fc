package remote

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/trestle/internal/api"
	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/repository"
	"github.com/alexanderramin/trestle/internal/service"
	"github.com/alexanderramin/trestle/internal/testutil"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newServices(t *testing.T) api.Services {
	t.Helper()
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	stages := repository.NewSQLiteStageRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	return api.Services{
		Projects: service.NewProjectService(projects),
		Stages:   service.NewStageService(projects, stages),
		Tasks:    service.NewTaskService(stages, tasks),
	}
}

// clients builds each Client implementation over its own fresh database.
func clients(t *testing.T) map[string]func(t *testing.T) Client {
	return map[string]func(t *testing.T) Client{
		"local": func(t *testing.T) Client {
			svc := newServices(t)
			return NewLocalRemote(svc.Projects, svc.Stages, svc.Tasks)
		},
		"http": func(t *testing.T) Client {
			srv := httptest.NewServer(api.NewServer(newServices(t)).Handler())
			t.Cleanup(srv.Close)
			return NewHTTPRemote(srv.URL, WithRateLimit(0))
		},
	}
}

func TestClient_Hierarchy(t *testing.T) {
	for name, build := range clients(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c := build(t)

			env, err := c.CreateProject(ctx, domain.Project{Name: "Mill Street", StartDate: testutil.Day(2024, 1, 1)})
			require.NoError(t, err)
			require.True(t, env.Success, env.Message)
			projectID := env.ID

			p, err := c.GetProject(ctx, projectID)
			require.NoError(t, err)
			assert.Equal(t, "Mill Street", p.Name)

			env, err = c.CreateStage(ctx, projectID, StageInput{Name: "Demolition", EndDate: testutil.DayPtr(2024, 1, 20)})
			require.NoError(t, err)
			require.True(t, env.Success, env.Message)
			stageID := env.ID

			env, err = c.CreateTask(ctx, stageID, TaskInput{
				Name:            "Strip interior",
				StartDate:       testutil.DayPtr(2024, 1, 3),
				ExpectedEndDate: testutil.DayPtr(2024, 1, 9),
			})
			require.NoError(t, err)
			require.True(t, env.Success, env.Message)
			taskID := env.ID

			env, err = c.CompleteTask(ctx, taskID)
			require.NoError(t, err)
			assert.True(t, env.Success)

			stages, err := c.FetchStages(ctx, projectID)
			require.NoError(t, err)
			require.Len(t, stages, 1)
			assert.Equal(t, "Demolition", stages[0].Name)
			require.NotNil(t, stages[0].EndDate)
			assert.Equal(t, "2024-01-20", domain.FormatDate(stages[0].EndDate))

			tasks, err := c.FetchTasks(ctx, stageID)
			require.NoError(t, err)
			require.Len(t, tasks, 1)
			assert.True(t, tasks[0].IsCompleted)
			assert.Equal(t, "2024-01-03", domain.FormatDate(tasks[0].StartDate))

			env, err = c.UncheckTask(ctx, taskID)
			require.NoError(t, err)
			assert.True(t, env.Success)

			env, err = c.EditTask(ctx, taskID, TaskInput{Name: "Strip interior walls"})
			require.NoError(t, err)
			assert.True(t, env.Success)

			env, err = c.EditStage(ctx, stageID, StageInput{Name: "Demo"})
			require.NoError(t, err)
			assert.True(t, env.Success)

			env, err = c.DeleteTask(ctx, taskID)
			require.NoError(t, err)
			assert.True(t, env.Success)

			env, err = c.DeleteStage(ctx, stageID)
			require.NoError(t, err)
			assert.True(t, env.Success)

			stages, err = c.FetchStages(ctx, projectID)
			require.NoError(t, err)
			assert.Empty(t, stages)

			list, err := c.ListProjects(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 1)
		})
	}
}

func TestClient_RejectionsAreEnvelopes(t *testing.T) {
	for name, build := range clients(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c := build(t)

			env, err := c.CompleteTask(ctx, 404)
			require.NoError(t, err)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Message)

			env, err = c.CreateStage(ctx, 12, StageInput{Name: "Orphan"})
			require.NoError(t, err)
			assert.False(t, env.Success)

			env, err = c.CreateProject(ctx, domain.Project{
				Name:       "Backwards",
				StartDate:  testutil.Day(2024, 6, 1),
				TargetDate: testutil.DayPtr(2024, 1, 1),
			})
			require.NoError(t, err)
			assert.False(t, env.Success)
			assert.Contains(t, env.Message, "before start date")
		})
	}
}

func TestClient_MissingParentIsNotFound(t *testing.T) {
	for name, build := range clients(t) {
		t.Run(name, func(t *testing.T) {
			c := build(t)

			_, err := c.FetchStages(context.Background(), 31)
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = c.FetchTasks(context.Background(), 32)
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = c.GetProject(context.Background(), 33)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}
