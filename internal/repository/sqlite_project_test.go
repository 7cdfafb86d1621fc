package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/trestle/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Harbour View",
		testutil.WithLocation("Pier 4"),
		testutil.WithProjectStart(testutil.Day(2024, 1, 8)),
		testutil.WithTargetDate(testutil.Day(2024, 12, 20)),
	)
	require.NoError(t, repo.Create(ctx, proj))
	assert.NotZero(t, proj.ID)

	got, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "Harbour View", got.Name)
	assert.Equal(t, "Pier 4", got.Location)
	assert.Equal(t, testutil.Day(2024, 1, 8), got.StartDate)
	require.NotNil(t, got.TargetDate)
	assert.Equal(t, testutil.Day(2024, 12, 20), *got.TargetDate)
	assert.True(t, proj.CreatedAt.Equal(got.CreatedAt))
}

func TestProjectRepo_GetMissing(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_ListUpdateDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	a := testutil.NewTestProject("A")
	b := testutil.NewTestProject("B")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)

	b.Name = "B renamed"
	b.TargetDate = nil
	require.NoError(t, repo.Update(ctx, b))
	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "B renamed", got.Name)
	assert.Nil(t, got.TargetDate)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), ErrNotFound)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
