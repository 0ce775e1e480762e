package main

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/sortbench/internal/api/router"
	"github.com/DjordjeVuckovic/sortbench/internal/api/server"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/history"
	pkgserver "github.com/DjordjeVuckovic/sortbench/pkg/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		port        string
		historyPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored runs, reports and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := root.loadSpec()
			if err != nil {
				return err
			}
			if historyPath != "" {
				bs.History.Path = historyPath
			}

			sCfg, err := server.LoadConfig(port)
			if err != nil {
				return err
			}

			store, err := history.Open(bs.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			s := server.New(sCfg, pkgserver.CompositeHealthChecker{store}).
				SetupMiddlewares().
				SetupErrorHandler().
				SetupHealthChecks("/health").
				SetupOpenApi("/swagger/*")

			s.Echo.GET("/", func(c echo.Context) error {
				return c.String(200, "sortbench API is running")
			})

			router.NewRunsRouter(s.Echo, store,
				router.WithRegressionThreshold(bs.History.Threshold()),
			).Bind()

			go func() {
				<-s.ShutdownSignal()
				slog.Info("Shutdown started, cleaning up resources...")
			}()

			return s.Start()
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default $PORT or "+server.DefaultPort+")")
	cmd.Flags().StringVar(&historyPath, "history-path", "", "history database path")

	return cmd
}
