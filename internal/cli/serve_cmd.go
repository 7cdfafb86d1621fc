package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/trestle/internal/api"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local database over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Local == nil {
				return fmt.Errorf("serve needs the local database; unset --remote")
			}
			addr := app.Config.Listen
			if cmd.Flags().Changed("listen") {
				addr = listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			srv := api.NewServer(*app.Local, api.WithLogger(app.Logger), api.WithRegistry(reg))
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", addr)
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Address to listen on (default from config)")

	return cmd
}
