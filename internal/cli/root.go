package cli

import (
	"errors"
	"log/slog"
	"time"

	"github.com/alexanderramin/trestle/internal/api"
	"github.com/alexanderramin/trestle/internal/config"
	"github.com/alexanderramin/trestle/internal/remote"
	"github.com/alexanderramin/trestle/internal/service"
	"github.com/spf13/cobra"
)

// App holds what CLI commands share. Fields left nil are wired from the
// resolved Config before the first command runs.
type App struct {
	Client remote.Client

	// Import and Local are only set when running against the local database.
	Import service.ImportService
	Local  *api.Services

	Config config.Config
	Logger *slog.Logger

	IsInteractive func() bool
	Now           func() time.Time

	closers []func() error
}

// NewRootCmd creates the top-level "trestle" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "trestle",
		Short:         "Construction project tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newProjectCmd(app),
		newStageCmd(app),
		newTaskCmd(app),
		newStatusCmd(app),
		newBoardCmd(app),
		newServeCmd(app),
	)

	return root
}

func (a *App) setup(cmd *cobra.Command) error {
	cfg, err := config.FromFlags(cmd.Flags())
	if err != nil {
		return err
	}
	a.Config = cfg
	if a.Logger == nil {
		a.Logger = cfg.NewLogger(cmd.ErrOrStderr())
	}
	if a.Now == nil {
		a.Now = time.Now
	}
	if a.IsInteractive == nil {
		a.IsInteractive = func() bool { return false }
	}
	if a.Client != nil {
		return nil
	}
	return a.connect()
}

// Close releases whatever connect opened. It is safe to call twice.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
