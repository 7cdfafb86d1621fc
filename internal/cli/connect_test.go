package cli

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/trestle/internal/api"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestConnect_OpensLocalDatabase(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "nested", "site.db")
	app := &App{}

	output, err := executeCmd(t, app, "--db", dbPath, "project", "add", "--name", "On disk")
	require.NoError(t, err)
	assert.Contains(t, output, "Created project #1 On disk")
	assert.FileExists(t, dbPath)
	assert.NotNil(t, app.Local)
	assert.NotNil(t, app.Import)

	// The database was closed after the command; a new App sees the row.
	again := &App{}
	output, err = executeCmd(t, again, "--db", dbPath, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "On disk")
}

func TestConnect_ConfigFileSelectsDatabase(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "trestle.yaml")
	dbPath := filepath.Join(dir, "from-config.db")
	require.NoError(t, os.WriteFile(cfgPath, []byte("db: "+dbPath+"\n"), 0o600))

	_, err := executeCmd(t, &App{}, "--config", cfgPath, "project", "add", "--name", "Configured")
	require.NoError(t, err)
	assert.FileExists(t, dbPath)
}

func TestConnect_RemoteServer(t *testing.T) {
	local := testApp(t)
	s := seedSite(t, local)
	srv := httptest.NewServer(api.NewServer(*local.Local).Handler())
	t.Cleanup(srv.Close)

	app := &App{}
	output, err := executeCmd(t, app, "--remote", srv.URL, "status", "--project", id(s.project.ID))
	require.NoError(t, err)
	assert.Contains(t, output, "RIVERSIDE DUPLEX")
	assert.Contains(t, output, "1/4 done")
	assert.Nil(t, app.Local, "remote mode has no local services")

	output, err = executeCmd(t, &App{}, "--remote", srv.URL, "task", "toggle", id(s.walls.ID), "--project", id(s.project.ID))
	require.NoError(t, err)
	assert.Contains(t, output, "2/4 done")
}

func TestConnect_RemoteModeRefusesLocalOnlyCommands(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := executeCmd(t, &App{}, "--remote", "http://127.0.0.1:1", "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serve needs the local database")

	_, err = executeCmd(t, &App{}, "--remote", "http://127.0.0.1:1", "project", "import", "x.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import needs the local database")
}

func TestBoard_RequiresTerminal(t *testing.T) {
	app := testApp(t)
	s := seedSite(t, app)

	_, err := executeCmd(t, app, "board", "--project", id(s.project.ID))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestApp_CloseIsIdempotent(t *testing.T) {
	app := &App{}
	closed := 0
	app.closers = append(app.closers, func() error { closed++; return nil })

	require.NoError(t, app.Close())
	require.NoError(t, app.Close())
	assert.Equal(t, 1, closed)
}
