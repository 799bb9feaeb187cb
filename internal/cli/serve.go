package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/rustprint/pkg/api"
	"github.com/matzehuels/rustprint/pkg/store"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis HTTP API",
		Long: `Serve exposes analysis over HTTP:

  POST /v1/analyze                      analyze the request body
  GET  /v1/reports/{sha256}             fetch a stored report
  GET  /v1/toolchains/{hash}/reports    reports sharing a rustc build
  GET  /healthz                         liveness check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(cmd.Context(), false, true)
			if err != nil {
				return err
			}
			defer closeRunner(runner)

			st, _ := runner.Store.(store.Store)
			srv := api.NewServer(runner, st, cfg.Server.MaxBodyBytes, c.Logger)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
