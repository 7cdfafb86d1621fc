package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/trestle/internal/cli/formatter"
	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectImportCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, location, start, target string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := domain.Project{Name: name, Location: location}

			startDate, err := parseDateFlag("start", start)
			if err != nil {
				return err
			}
			if startDate != nil {
				p.StartDate = *startDate
			}
			if p.TargetDate, err = parseDateFlag("target", target); err != nil {
				return err
			}

			env, err := app.Client.CreateProject(cmd.Context(), p)
			if err != nil {
				return err
			}
			if !env.Success {
				return errors.New(env.Message)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created project #%d %s\n", env.ID, name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&location, "location", "", "Site location")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&target, "target", "", "Target completion date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Client.ListProjects(cmd.Context())
			if err != nil {
				return err
			}

			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects, app.Now()))
			return nil
		},
	}
}

func newProjectImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a project with its stages and tasks from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Import == nil {
				return fmt.Errorf("import needs the local database; unset --remote")
			}
			result, err := app.Import.ImportProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported project #%d %s: %d stages, %d tasks\n",
				result.Project.ID, result.Project.Name, result.StageCount, result.TaskCount)
			return nil
		},
	}
}
