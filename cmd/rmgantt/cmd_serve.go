package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rmviz/rmgantt/internal/webserver"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var (
		port      int
		noBrowser bool
		execTime  float64
	)

	cmd := &cobra.Command{
		Use:   "serve [input]",
		Short: "Serve the chart on localhost",
		Long: `Serve the chart on localhost and open it in the default browser.

The document is re-read on every request, so re-running the scheduler and
refreshing the page shows the new schedule.

Endpoints:
  /              Chart page with a per-task summary
  /chart.svg     The chart image
  /api/chart     Laid out chart model (JSON)
  /api/summary   Schedule statistics (JSON)
  /api/health    Liveness probe

The server binds to 127.0.0.1 only. Use --port 0 to pick a free port.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject(args)
			if err != nil {
				return err
			}
			settings, err := proj.settings(cmd, execTime)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("port") {
				port = proj.cfg.Server.Port
			}
			if !cmd.Flags().Changed("no-browser") && proj.cfg.Server.NoBrowser != nil {
				noBrowser = *proj.cfg.Server.NoBrowser
			}
			if port < 0 || port > 65535 {
				return fmt.Errorf("invalid port %d", port)
			}

			srv, err := webserver.New(webserver.Config{
				Port:      port,
				InputPath: proj.input,
				Settings:  settings,
				Width:     proj.cfg.Chart.Width,
				Height:    proj.cfg.Chart.Height,
				NoBrowser: noBrowser,
				Logger:    slog.Default(),
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "Serving %s (Ctrl+C to stop)\n", proj.input) //nolint:errcheck
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from .rmgantt.yaml, 7428)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open a browser")
	addExecTimeFlag(cmd, &execTime)

	return cmd
}
