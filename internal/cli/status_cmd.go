package cli

import (
	"fmt"

	"github.com/alexanderramin/trestle/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	var projectID int64

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show a project's stages, tasks and progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := func() {}
			if app.IsInteractive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Loading project")
			}
			sess, err := openProject(cmd.Context(), app, projectID)
			stop()
			if err != nil {
				return err
			}
			defer sess.Close()

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTree(sess.store.Snapshot(), sess.project))
			return nil
		},
	}

	addProjectFlag(cmd, &projectID)

	return cmd
}
