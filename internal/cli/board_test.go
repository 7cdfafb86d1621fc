package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/hierarchy"
	"github.com/alexanderramin/trestle/internal/remote/remotetest"
	"github.com/alexanderramin/trestle/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type boardFixture struct {
	fake    *remotetest.Fake
	project domain.Project
	walls   domain.Task
	trusses domain.Task
	roofing domain.Stage
}

// newBoardFixture seeds a fake with two stages: Framing (two tasks) and
// Roofing (one task). Rows are Framing, walls, floor, Roofing, trusses.
func newBoardFixture() *boardFixture {
	f := &boardFixture{fake: remotetest.New()}
	f.project = f.fake.AddProject("Riverside Duplex")
	framing := f.fake.AddStage(f.project.ID, "Framing")
	f.roofing = f.fake.AddStage(f.project.ID, "Roofing")
	f.walls = f.fake.AddTask(framing.ID, domain.Task{
		Name:            "Raise walls",
		StartDate:       domain.ParseDate("2024-01-01"),
		ExpectedEndDate: domain.ParseDate("2024-01-10"),
	})
	f.fake.AddTask(framing.ID, domain.Task{Name: "Floor joists", IsCompleted: true})
	f.trusses = f.fake.AddTask(f.roofing.ID, domain.Task{Name: "Lay trusses"})
	return f
}

func (f *boardFixture) drive(t *testing.T) *teatest.Driver {
	t.Helper()
	store, err := hierarchy.New(f.project.ID, f.fake,
		hierarchy.WithClock(func() time.Time { return today }))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	d := teatest.New(t, newBoardModel(t.Context(), store, f.project), teatest.WithSize(100, 40))
	d.DrainInit()
	return d
}

func TestBoard_RendersProject(t *testing.T) {
	f := newBoardFixture()
	d := f.drive(t)

	view := d.ViewPlain()
	assert.Contains(t, view, "Riverside Duplex")
	assert.Contains(t, view, " 33%")
	assert.Contains(t, view, "Framing")
	assert.Contains(t, view, "Raise walls")
	assert.Contains(t, view, "5d late")
	assert.Contains(t, d.Line("Framing"), "›", "cursor starts on the first row")
}

func TestBoard_ToggleTask(t *testing.T) {
	f := newBoardFixture()
	d := f.drive(t)

	d.PressDown()
	require.Contains(t, d.Line("Raise walls"), "›")
	d.PressSpace()

	stored, _ := f.fake.Task(f.walls.ID)
	assert.True(t, stored.IsCompleted)
	assert.Contains(t, d.Line("Raise walls"), "✔")
	assert.Contains(t, d.ViewPlain(), "completed")
	assert.Contains(t, d.ViewPlain(), " 67%")
}

func TestBoard_ToggleOnStageRowDoesNothing(t *testing.T) {
	f := newBoardFixture()
	d := f.drive(t)

	d.PressSpace()
	assert.Zero(t, f.fake.Calls(remotetest.OpCompleteTask))
	assert.Zero(t, f.fake.Calls(remotetest.OpUncheckTask))
}

func TestBoard_ToggleFailureReverts(t *testing.T) {
	f := newBoardFixture()
	f.fake.Fail(remotetest.OpCompleteTask, errors.New("connection reset"))
	d := f.drive(t)

	d.PressDown()
	d.PressSpace()

	assert.NotContains(t, d.Line("Raise walls"), "✔")
	assert.Contains(t, d.ViewPlain(), "reverted: ")
	assert.Contains(t, d.ViewPlain(), "connection reset")
}

func TestBoard_DeleteNeedsSecondPress(t *testing.T) {
	f := newBoardFixture()
	d := f.drive(t)

	d.PressDown()
	d.PressKey('x')
	assert.Contains(t, d.ViewPlain(), "press x again")
	assert.Zero(t, f.fake.Calls(remotetest.OpDeleteTask))

	d.PressKey('x')
	assert.Equal(t, 1, f.fake.Calls(remotetest.OpDeleteTask))
	assert.NotContains(t, d.ViewPlain(), "Raise walls")
	assert.Contains(t, d.ViewPlain(), "deleted")
}

func TestBoard_MovingDisarmsDelete(t *testing.T) {
	f := newBoardFixture()
	d := f.drive(t)

	d.PressDown()
	d.PressKey('x')
	d.PressDown()
	d.PressKey('x')
	assert.Zero(t, f.fake.Calls(remotetest.OpDeleteTask))
}

func TestBoard_DeleteStage(t *testing.T) {
	f := newBoardFixture()
	d := f.drive(t)

	for range 3 {
		d.PressKey('j')
	}
	require.Contains(t, d.Line("Roofing"), "›")
	d.PressKey('x')
	d.PressKey('x')

	assert.Equal(t, 1, f.fake.Calls(remotetest.OpDeleteStage))
	view := d.ViewPlain()
	assert.NotContains(t, view, "Roofing")
	assert.NotContains(t, view, "Lay trusses")
	assert.Contains(t, d.Line("Floor joists"), "›", "cursor is clamped to the last row")
}

func TestBoard_FailedLoadThenRetry(t *testing.T) {
	f := newBoardFixture()
	f.fake.Fail(remotetest.OpFetchStages, errors.New("connection refused"))
	d := f.drive(t)

	assert.Contains(t, d.ViewPlain(), "Could not load stages: connection refused")
	assert.Contains(t, d.ViewPlain(), "press r to retry")

	d.PressKey('r')
	assert.Contains(t, d.ViewPlain(), "Raise walls")
	assert.NotContains(t, d.ViewPlain(), "Could not load stages")
}

func TestBoard_HelpToggle(t *testing.T) {
	f := newBoardFixture()
	d := f.drive(t)

	assert.NotContains(t, d.ViewPlain(), "↓/j")
	d.PressKey('?')
	assert.Contains(t, d.ViewPlain(), "↓/j")
}

func TestBoard_Quit(t *testing.T) {
	f := newBoardFixture()
	d := f.drive(t)

	d.PressKey('q')
	assert.True(t, d.Quitting)
}
