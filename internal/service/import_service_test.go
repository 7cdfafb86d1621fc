package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/trestle/internal/importer"
	"github.com/alexanderramin/trestle/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrStr(s string) *string { return &s }

func writeImportJSON(t *testing.T, schema *importer.ImportSchema) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.json")
	data, err := json.MarshalIndent(schema, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func validImportSchema() *importer.ImportSchema {
	return &importer.ImportSchema{
		Project: importer.ProjectImport{
			Name:       "Riverside Duplex",
			Location:   "12 Quay St",
			StartDate:  "2024-03-01",
			TargetDate: ptrStr("2024-10-31"),
		},
		Stages: []importer.StageImport{
			{Ref: "found", Name: "Foundations"},
			{Ref: "frame", Name: "Framing"},
		},
		Tasks: []importer.TaskImport{
			{StageRef: "found", Name: "Excavate", Completed: true},
			{StageRef: "found", Name: "Pour footings"},
			{StageRef: "frame", Name: "Raise walls"},
		},
	}
}

func TestImportProject_FromFile(t *testing.T) {
	projects, stages, tasks, uow := setupRepos(t)
	ctx := context.Background()
	svc := NewImportService(uow)

	res, err := svc.ImportProject(ctx, writeImportJSON(t, validImportSchema()))
	require.NoError(t, err)
	assert.Equal(t, 2, res.StageCount)
	assert.Equal(t, 3, res.TaskCount)

	proj, err := projects.GetByID(ctx, res.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Riverside Duplex", proj.Name)

	stageList, err := stages.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, stageList, 2)
	assert.Equal(t, "Foundations", stageList[0].Name)

	found, err := tasks.ListByStage(ctx, stageList[0].ID)
	require.NoError(t, err)
	require.Len(t, found, 2)
	completed := 0
	for _, task := range found {
		if task.IsCompleted {
			completed++
		}
	}
	assert.Equal(t, 1, completed)
}

func TestImportProject_ValidationFailureWritesNothing(t *testing.T) {
	projects, _, _, uow := setupRepos(t)
	ctx := context.Background()
	svc := NewImportService(uow)

	schema := validImportSchema()
	schema.Tasks[2].StageRef = "roof"

	_, err := svc.ImportProjectFromSchema(ctx, schema)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), `unknown stage "roof"`)

	list, err := projects.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestImportProject_MissingFile(t *testing.T) {
	_, _, _, uow := setupRepos(t)
	svc := NewImportService(uow)

	_, err := svc.ImportProject(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestImportProject_RollbackOnTaskFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	// Writes: #1 project, #2 stage found, #3 task Excavate, #4 task Pour footings.
	failUoW := &testutil.ExecFaultUoW{DB: database, FailAt: 4, Err: errors.New("injected task failure")}
	svc := NewImportService(failUoW)

	_, err := svc.ImportProjectFromSchema(ctx, validImportSchema())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected task failure")

	for _, table := range []string{"projects", "stages", "tasks"} {
		var n int
		require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
		assert.Zero(t, n, "%s should be empty after rollback", table)
	}
}
