// Package remote is the client side of the system of record. The hierarchy
// store talks only to the Remote interface; HTTPRemote reaches a trestle
// server and LocalRemote calls the SQLite services in process.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/trestle/internal/domain"
)

// ErrNotFound is wrapped when the addressed project, stage or task does not exist.
var ErrNotFound = errors.New("not found")

// Envelope is the uniform result of a mutating call. Success false means
// the remote rejected the change; Message is shown to the user as is.
type Envelope struct {
	Success bool
	Message string
	// ID of the created entity, when the remote reports it.
	ID int64
}

// StageInput carries the editable stage fields.
type StageInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
}

// TaskInput carries task fields. Edits only use Name and Description.
type TaskInput struct {
	Name            string
	Description     string
	StartDate       *time.Time
	ExpectedEndDate *time.Time
}

// Remote is the persistence service the hierarchy store reconciles against.
type Remote interface {
	FetchStages(ctx context.Context, projectID int64) ([]domain.Stage, error)
	FetchTasks(ctx context.Context, stageID int64) ([]domain.Task, error)

	CreateStage(ctx context.Context, projectID int64, in StageInput) (Envelope, error)
	EditStage(ctx context.Context, stageID int64, in StageInput) (Envelope, error)
	DeleteStage(ctx context.Context, stageID int64) (Envelope, error)

	CreateTask(ctx context.Context, stageID int64, in TaskInput) (Envelope, error)
	EditTask(ctx context.Context, taskID int64, in TaskInput) (Envelope, error)
	DeleteTask(ctx context.Context, taskID int64) (Envelope, error)
	CompleteTask(ctx context.Context, taskID int64) (Envelope, error)
	UncheckTask(ctx context.Context, taskID int64) (Envelope, error)
}

// Projects covers the project-level calls the CLI needs outside a store.
type Projects interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id int64) (domain.Project, error)
	CreateProject(ctx context.Context, p domain.Project) (Envelope, error)
}

// Client is a full remote: the store's surface plus project calls.
type Client interface {
	Remote
	Projects
}

// StatusError is returned when the server answers with an unexpected
// status and no envelope.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote returned status %d", e.Code)
	}
	return fmt.Sprintf("remote returned status %d: %s", e.Code, e.Body)
}

// Ok builds a successful envelope.
func Ok(id int64) Envelope {
	return Envelope{Success: true, ID: id}
}

// Rejected builds a failed envelope carrying msg.
func Rejected(msg string) Envelope {
	return Envelope{Success: false, Message: msg}
}
