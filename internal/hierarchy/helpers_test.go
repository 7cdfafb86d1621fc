package hierarchy

import (
	"testing"
	"time"

	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/remote/remotetest"
	"github.com/stretchr/testify/require"
)

// Mid-morning on 2024-01-15, the "today" of every store test.
var today = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func day(s string) *time.Time { return domain.ParseDate(s) }

func newStore(t *testing.T, r *remotetest.Fake, projectID int64, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return today })}, opts...)
	s, err := New(projectID, r, opts...)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

type seeded struct {
	project domain.Project
	framing domain.Stage
	roofing domain.Stage
	// framing tasks
	walls, floor, stairs, windows domain.Task
	// roofing task
	trusses domain.Task
}

// seedSite builds a project with two stages: framing has four tasks, one
// of them completed; roofing has one open task.
func seedSite(f *remotetest.Fake) seeded {
	var s seeded
	s.project = f.AddProject("Riverside Duplex")
	s.framing = f.AddStage(s.project.ID, "Framing")
	s.roofing = f.AddStage(s.project.ID, "Roofing")
	s.walls = f.AddTask(s.framing.ID, domain.Task{Name: "Raise walls", StartDate: day("2024-01-01"), ExpectedEndDate: day("2024-01-10")})
	s.floor = f.AddTask(s.framing.ID, domain.Task{Name: "Floor joists", StartDate: day("2024-01-01"), ExpectedEndDate: day("2024-01-05"), IsCompleted: true})
	s.stairs = f.AddTask(s.framing.ID, domain.Task{Name: "Stairs", StartDate: day("2024-01-12"), ExpectedEndDate: day("2024-01-20")})
	s.windows = f.AddTask(s.framing.ID, domain.Task{Name: "Window frames", StartDate: day("2024-02-01")})
	s.trusses = f.AddTask(s.roofing.ID, domain.Task{Name: "Lay trusses"})
	return s
}

func loaded(t *testing.T, f *remotetest.Fake, projectID int64, opts ...Option) *Store {
	t.Helper()
	s := newStore(t, f, projectID, opts...)
	require.NoError(t, s.LoadStages(t.Context()))
	return s
}
