package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dataviz/internal/server"

	"github.com/spf13/cobra"
)

// NewServeCmd serves the HTTP API
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tables and charts over HTTP",
		Long: `Serve the data directory over HTTP:

  GET /api/tables                   list tables
  GET /api/tables/{name}            columns and preview
  GET /api/tables/{name}/plot       PNG chart (?x=&y=&kind=)
  GET /healthz                      health check
  GET /metrics                      Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Server.Address = addr
			}
			srv, err := server.New(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintln(cmd.OutOrStdout(), infoText("Listening on http://"+cfg.Server.Address))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides server.address)")
	return cmd
}
