package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/repository"
	"github.com/alexanderramin/trestle/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_CreateDefaultsStartDate(t *testing.T) {
	projects, _, _, _ := setupRepos(t)
	ctx := context.Background()
	rec := &recordingObserver{}
	svc := NewProjectService(projects, rec)

	proj := &domain.Project{Name: "Harbour View", Location: "Pier 4"}
	require.NoError(t, svc.Create(ctx, proj))
	assert.NotZero(t, proj.ID)
	assert.False(t, proj.StartDate.IsZero())

	fetched, err := svc.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pier 4", fetched.Location)

	require.Len(t, rec.events, 1)
	assert.Equal(t, "create-project", rec.events[0].Name)
	assert.True(t, rec.events[0].Success)
}

func TestProjectService_CreateRejectsBlankName(t *testing.T) {
	projects, _, _, _ := setupRepos(t)
	rec := &recordingObserver{}
	svc := NewProjectService(projects, rec)

	err := svc.Create(context.Background(), &domain.Project{Name: "  "})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	require.Len(t, rec.events, 1)
	assert.False(t, rec.events[0].Success)
}

func TestProjectService_UpdateAndDelete(t *testing.T) {
	projects, _, _, _ := setupRepos(t)
	ctx := context.Background()
	svc := NewProjectService(projects)

	proj := testutil.NewTestProject("Old")
	require.NoError(t, svc.Create(ctx, proj))

	proj.Name = "New"
	proj.TargetDate = testutil.DayPtr(2030, 1, 1)
	require.NoError(t, svc.Update(ctx, proj))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "New", list[0].Name)

	require.NoError(t, svc.Delete(ctx, proj.ID))
	_, err = svc.GetByID(ctx, proj.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
