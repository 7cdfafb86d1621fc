package cli

import (
	"fmt"

	"github.com/alexanderramin/trestle/internal/contract"
	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/hierarchy"
	"github.com/alexanderramin/trestle/internal/remote"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the tasks of a stage",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskEditCmd(app),
		newTaskRemoveCmd(app),
		newTaskToggleCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var projectID, stageID int64
	var f entryFields

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task to a stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.Name == "" {
				if !app.IsInteractive() {
					return fmt.Errorf("--name is required")
				}
				if err := taskForm(&f).Run(); err != nil {
					return err
				}
			}

			in := remote.TaskInput{Name: f.Name, Description: f.Description}
			var err error
			if in.StartDate, err = parseDateFlag("start", f.Start); err != nil {
				return err
			}
			if in.ExpectedEndDate, err = parseDateFlag("due", f.End); err != nil {
				return err
			}

			sess, err := openProject(cmd.Context(), app, projectID)
			if err != nil {
				return err
			}
			defer sess.Close()

			outcome, err := sess.store.CreateTask(cmd.Context(), stageID, in)
			return sess.report(cmd.OutOrStdout(), fmt.Sprintf("task %q added to stage #%d", in.Name, stageID), outcome, err)
		},
	}

	addProjectFlag(cmd, &projectID)
	cmd.Flags().Int64VarP(&stageID, "stage", "s", 0, "Stage ID")
	_ = cmd.MarkFlagRequired("stage")
	addEntryFlags(cmd, &f, "due")

	return cmd
}

func newTaskEditCmd(app *App) *cobra.Command {
	var projectID int64
	var name, description string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Rename a task or change its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("description") {
				return fmt.Errorf("nothing to change: pass --name or --description")
			}

			sess, err := openProject(cmd.Context(), app, projectID)
			if err != nil {
				return err
			}
			defer sess.Close()

			what := fmt.Sprintf("task #%d updated", taskID)
			current, ok := sess.store.Snapshot().Task(taskID)
			if !ok {
				return sess.report(cmd.OutOrStdout(), what, hierarchy.OutcomeNoop, nil)
			}

			in := remote.TaskInput{Name: current.Task.Name, Description: current.Task.Description}
			if flags.Changed("name") {
				in.Name = name
			}
			if flags.Changed("description") {
				in.Description = description
			}

			outcome, err := sess.store.EditTask(cmd.Context(), taskID, in)
			return sess.report(cmd.OutOrStdout(), what, outcome, err)
		},
	}

	addProjectFlag(cmd, &projectID)
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var projectID int64

	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID("task", args[0])
			if err != nil {
				return err
			}

			sess, err := openProject(cmd.Context(), app, projectID)
			if err != nil {
				return err
			}
			defer sess.Close()

			outcome, err := sess.store.DeleteTask(cmd.Context(), taskID)
			return sess.report(cmd.OutOrStdout(), fmt.Sprintf("task #%d deleted", taskID), outcome, err)
		},
	}

	addProjectFlag(cmd, &projectID)

	return cmd
}

func newTaskToggleCmd(app *App) *cobra.Command {
	var projectID int64

	cmd := &cobra.Command{
		Use:   "toggle ID",
		Short: "Mark a task completed, or reopen a completed one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID("task", args[0])
			if err != nil {
				return err
			}

			sess, err := openProject(cmd.Context(), app, projectID)
			if err != nil {
				return err
			}
			defer sess.Close()

			before, _ := sess.store.Snapshot().Task(taskID)
			outcome, err := sess.store.ToggleTaskCompletion(cmd.Context(), taskID)
			return sess.report(cmd.OutOrStdout(), toggleVerb(taskID, before), outcome, err)
		},
	}

	addProjectFlag(cmd, &projectID)

	return cmd
}

func toggleVerb(taskID int64, before contract.TaskView) string {
	if before.Status == domain.TaskCompleted {
		return fmt.Sprintf("task #%d reopened", taskID)
	}
	return fmt.Sprintf("task #%d completed", taskID)
}
