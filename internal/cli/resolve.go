package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/trestle/internal/cli/formatter"
	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/hierarchy"
	"github.com/alexanderramin/trestle/internal/remote"
	"github.com/spf13/cobra"
)

// parseID parses a positive numeric id given on the command line.
func parseID(kind, input string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(input, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, input)
	}
	return id, nil
}

// parseDateFlag parses an optional YYYY-MM-DD flag value. Blank means no date.
func parseDateFlag(flag, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s date %q: use YYYY-MM-DD", flag, value)
	}
	return &t, nil
}

// addProjectFlag registers the required --project flag shared by the
// hierarchy commands.
func addProjectFlag(cmd *cobra.Command, target *int64) {
	cmd.Flags().Int64VarP(target, "project", "p", 0, "Project ID")
	_ = cmd.MarkFlagRequired("project")
}

// session is a loaded hierarchy store for one project.
type session struct {
	project domain.Project
	store   *hierarchy.Store
}

// openProject fetches the project and loads its stages and tasks into a
// fresh store. The caller must Close the store.
func openProject(ctx context.Context, app *App, projectID int64) (*session, error) {
	project, err := app.Client.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, remote.ErrNotFound) {
			return nil, fmt.Errorf("project #%d not found", projectID)
		}
		return nil, err
	}
	store, err := newStore(app, projectID)
	if err != nil {
		return nil, err
	}
	if err := store.LoadStages(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return &session{project: project, store: store}, nil
}

func newStore(app *App, projectID int64) (*hierarchy.Store, error) {
	return hierarchy.New(projectID, app.Client,
		hierarchy.WithLogger(app.Logger),
		hierarchy.WithClock(app.Now),
		hierarchy.WithHydrateConcurrency(app.Config.HydrateConcurrency),
	)
}

func (s *session) Close() { s.store.Close() }

// report prints a mutation's outcome followed by the reconciled tree, and
// turns failures into the command's error.
func (s *session) report(w io.Writer, what string, outcome hierarchy.Outcome, err error) error {
	fmt.Fprintln(w, formatter.FormatOutcome(what, outcome, err))
	switch outcome {
	case hierarchy.OutcomeNoop:
		return fmt.Errorf("%s: not in project #%d", what, s.project.ID)
	case hierarchy.OutcomeIgnored:
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, formatter.FormatTree(s.store.Snapshot(), s.project))

	var refresh *hierarchy.RefreshError
	if outcome == hierarchy.OutcomeApplied && errors.As(err, &refresh) {
		return nil
	}
	return err
}
