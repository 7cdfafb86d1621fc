package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "trestle")
	assert.Contains(t, output, "stage")
}

func TestProjectAdd_ThenList(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app, "project", "add", "--name", "Hillside Cabin", "--location", "Lot 7", "--target", "2024-09-01")
	require.NoError(t, err)
	assert.Contains(t, output, "Created project #1 Hillside Cabin")

	output, err = executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "Hillside Cabin")
	assert.Contains(t, output, "Lot 7")
}

func TestProjectAdd_DefaultsStartToToday(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--name", "Quick job")
	require.NoError(t, err)

	projects, err := app.Local.Projects.List(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.False(t, projects[0].StartDate.IsZero())
}

func TestProjectAdd_RequiresName(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestProjectAdd_InvalidDate(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--name", "X", "--target", "next spring")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --target date")
}

func TestProjectAdd_TargetBeforeStartIsRejected(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--name", "X", "--start", "2024-05-01", "--target", "2024-04-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before start date")
}

func TestProjectList_Empty(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "No projects found.")
}

func TestProjectImport(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "cabin.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"project": {"name": "Imported Cabin", "start_date": "2024-01-02"},
		"stages": [
			{"ref": "found", "name": "Foundation", "start_date": "2024-01-02", "end_date": "2024-01-20"},
			{"ref": "frame", "name": "Framing"}
		],
		"tasks": [
			{"stage_ref": "found", "name": "Pour footings", "completed": true},
			{"stage_ref": "found", "name": "Cure slab", "expected_end_date": "2024-01-10"},
			{"stage_ref": "frame", "name": "Raise walls"}
		]
	}`), 0o600))

	output, err := executeCmd(t, app, "project", "import", path)
	require.NoError(t, err)
	assert.Contains(t, output, "Imported Cabin: 2 stages, 3 tasks")

	output, err = executeCmd(t, app, "status", "--project", "1")
	require.NoError(t, err)
	assert.Contains(t, output, "Cure slab")
	assert.Contains(t, output, "1/3 done")
}

func TestProjectImport_NeedsLocalDatabase(t *testing.T) {
	app := testApp(t)
	app.Import = nil

	_, err := executeCmd(t, app, "project", "import", "whatever.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "local database")
}

func TestStatus_ShowsDerivedTree(t *testing.T) {
	app := testApp(t)
	s := seedSite(t, app)

	output, err := executeCmd(t, app, "status", "--project", id(s.project.ID))
	require.NoError(t, err)

	assert.Contains(t, output, "RIVERSIDE DUPLEX")
	assert.Contains(t, output, " 25%")
	assert.Contains(t, output, "1/4 done")
	assert.Contains(t, output, "1 in progress")
	assert.Contains(t, output, "1 delayed")
	assert.Contains(t, output, "Framing")
	assert.Contains(t, output, " 33%")
	assert.Contains(t, output, "5d late")
	assert.Contains(t, output, "Lay trusses")
}

func TestStatus_EmptyProject(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "project", "add", "--name", "Bare lot")
	require.NoError(t, err)

	output, err := executeCmd(t, app, "status", "--project", "1")
	require.NoError(t, err)
	assert.Contains(t, output, "No stages yet")
}

func TestStatus_UnknownProject(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "status", "--project", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project #99 not found")
}

func TestStatus_RequiresProjectFlag(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project")
}
