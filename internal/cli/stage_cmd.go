package cli

import (
	"fmt"

	"github.com/alexanderramin/trestle/internal/hierarchy"
	"github.com/alexanderramin/trestle/internal/remote"
	"github.com/spf13/cobra"
)

func newStageCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Manage the stages of a project",
	}

	cmd.AddCommand(
		newStageAddCmd(app),
		newStageEditCmd(app),
		newStageRemoveCmd(app),
	)

	return cmd
}

func newStageAddCmd(app *App) *cobra.Command {
	var projectID int64
	var f entryFields

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a stage to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.Name == "" {
				if !app.IsInteractive() {
					return fmt.Errorf("--name is required")
				}
				if err := stageForm(&f).Run(); err != nil {
					return err
				}
			}

			in := remote.StageInput{Name: f.Name, Description: f.Description}
			var err error
			if in.StartDate, err = parseDateFlag("start", f.Start); err != nil {
				return err
			}
			if in.EndDate, err = parseDateFlag("end", f.End); err != nil {
				return err
			}

			sess, err := openProject(cmd.Context(), app, projectID)
			if err != nil {
				return err
			}
			defer sess.Close()

			outcome, err := sess.store.CreateStage(cmd.Context(), in)
			return sess.report(cmd.OutOrStdout(), fmt.Sprintf("stage %q added", in.Name), outcome, err)
		},
	}

	addProjectFlag(cmd, &projectID)
	addEntryFlags(cmd, &f, "end")

	return cmd
}

func newStageEditCmd(app *App) *cobra.Command {
	var projectID int64
	var f entryFields

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a stage's name, description or dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stageID, err := parseID("stage", args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("description") && !flags.Changed("start") && !flags.Changed("end") {
				return fmt.Errorf("nothing to change: pass --name, --description, --start or --end")
			}

			sess, err := openProject(cmd.Context(), app, projectID)
			if err != nil {
				return err
			}
			defer sess.Close()

			what := fmt.Sprintf("stage #%d updated", stageID)
			current, ok := sess.store.Snapshot().Stage(stageID)
			if !ok {
				return sess.report(cmd.OutOrStdout(), what, hierarchy.OutcomeNoop, nil)
			}

			// Unset flags keep the stage's current values.
			in := remote.StageInput{
				Name:        current.Stage.Name,
				Description: current.Stage.Description,
				StartDate:   current.Stage.StartDate,
				EndDate:     current.Stage.EndDate,
			}
			if flags.Changed("name") {
				in.Name = f.Name
			}
			if flags.Changed("description") {
				in.Description = f.Description
			}
			if flags.Changed("start") {
				if in.StartDate, err = parseDateFlag("start", f.Start); err != nil {
					return err
				}
			}
			if flags.Changed("end") {
				if in.EndDate, err = parseDateFlag("end", f.End); err != nil {
					return err
				}
			}

			outcome, err := sess.store.EditStage(cmd.Context(), stageID, in)
			return sess.report(cmd.OutOrStdout(), what, outcome, err)
		},
	}

	addProjectFlag(cmd, &projectID)
	addEntryFlags(cmd, &f, "end")

	return cmd
}

func newStageRemoveCmd(app *App) *cobra.Command {
	var projectID int64
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a stage and all of its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stageID, err := parseID("stage", args[0])
			if err != nil {
				return err
			}

			sess, err := openProject(cmd.Context(), app, projectID)
			if err != nil {
				return err
			}
			defer sess.Close()

			what := fmt.Sprintf("stage #%d deleted", stageID)
			current, ok := sess.store.Snapshot().Stage(stageID)
			if !ok {
				return sess.report(cmd.OutOrStdout(), what, hierarchy.OutcomeNoop, nil)
			}
			if !yes && app.IsInteractive() {
				confirmed := false
				title := fmt.Sprintf("Delete stage %q and its %d tasks?", current.Stage.Name, len(current.Tasks))
				if err := confirmForm(title, &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			outcome, err := sess.store.DeleteStage(cmd.Context(), stageID)
			return sess.report(cmd.OutOrStdout(), what, outcome, err)
		},
	}

	addProjectFlag(cmd, &projectID)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// addEntryFlags registers the name, description and date flags shared by
// stage and task commands. endFlag names the end-date flag.
func addEntryFlags(cmd *cobra.Command, f *entryFields, endFlag string) {
	cmd.Flags().StringVar(&f.Name, "name", "", "Name")
	cmd.Flags().StringVar(&f.Description, "description", "", "Description")
	cmd.Flags().StringVar(&f.Start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.End, endFlag, "", "End date (YYYY-MM-DD)")
}
