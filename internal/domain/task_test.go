package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func TestTaskValidate_RequiresName(t *testing.T) {
	task := &Task{Name: "  "}
	err := task.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestTaskValidate_EndBeforeStart(t *testing.T) {
	task := &Task{
		Name:            "Pour footings",
		StartDate:       ParseDate("2024-01-10"),
		ExpectedEndDate: ParseDate("2024-01-05"),
	}
	err := task.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before start date")
}

func TestTaskValidate_OpenEndedRange(t *testing.T) {
	task := &Task{Name: "Survey", StartDate: ParseDate("2024-01-10")}
	assert.NoError(t, task.Validate())
}

func TestMarkComplete_SetsCompletedAt(t *testing.T) {
	task := &Task{Name: "Frame walls"}
	task.MarkComplete(testNow)
	assert.True(t, task.IsCompleted)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, testNow, *task.CompletedAt)
	assert.Equal(t, testNow, task.UpdatedAt)
}

func TestMarkComplete_KeepsOriginalCompletedAt(t *testing.T) {
	earlier := testNow.Add(-time.Hour)
	task := &Task{Name: "Frame walls", IsCompleted: true, CompletedAt: &earlier}
	task.MarkComplete(testNow)
	assert.Equal(t, earlier, *task.CompletedAt)
}

func TestUncheck_ClearsCompletion(t *testing.T) {
	task := &Task{Name: "Frame walls"}
	task.MarkComplete(testNow)
	task.Uncheck(testNow)
	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.CompletedAt)
}

func TestRename_BlankNameKeepsExisting(t *testing.T) {
	task := &Task{Name: "Roofing", Description: "old"}
	task.Rename("", "new notes", testNow)
	assert.Equal(t, "Roofing", task.Name)
	assert.Equal(t, "new notes", task.Description)
}

func TestTaskStatus_IsValid(t *testing.T) {
	for _, s := range []TaskStatus{TaskNotStarted, TaskInProgress, TaskDelayed, TaskCompleted} {
		assert.True(t, s.IsValid(), "status=%s", s)
	}
	assert.False(t, TaskStatus("done").IsValid())
}
