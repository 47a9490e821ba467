package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/aostar/internal/server"
	"github.com/matzehuels/aostar/pkg/observability"
)

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var cfg server.Config

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search over HTTP",
		Long: `Serve the search over HTTP.

Endpoints:
  POST /v1/search    {"graph": {...}, "start": "A"} -> best cost and solution
  POST /v1/validate  graph document -> structural check
  GET  /healthz      liveness check
  GET  /metrics      Prometheus metrics

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("addr") && c.cfg.Server.Addr != "" {
				cfg.Addr = c.cfg.Server.Addr
			}
			if !flags.Changed("max-nodes") {
				cfg.MaxNodes = c.cfg.Server.MaxNodes
			}
			if !flags.Changed("max-edges") {
				cfg.MaxEdges = c.cfg.Server.MaxEdges
			}
			if !flags.Changed("max-visits") {
				cfg.MaxVisits = c.cfg.Server.MaxVisits
			}
			cfg.Logger = loggerFromContext(cmd.Context())

			srv := server.New(cfg)
			observability.SetSearchHooks(srv.Metrics())
			observability.SetHTTPHooks(srv.Metrics())

			printInfo(cmd.OutOrStdout(), "Serving on %s", StyleValue.Render("http://"+srv.Addr()))
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().IntVar(&cfg.MaxNodes, "max-nodes", 0, "largest accepted graph in nodes (0 = default)")
	cmd.Flags().IntVar(&cfg.MaxEdges, "max-edges", 0, "largest accepted graph in edges (0 = default)")
	cmd.Flags().IntVar(&cfg.MaxVisits, "max-visits", 0, "work budget of one search (0 = default)")
	return cmd
}
