package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/beamsplit/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes the solver over HTTP:

  POST /v1/solve   grid text or {"grid": "...", "refresh": bool}
  POST /v1/graph   dependency graph JSON for the posted grid
  GET  /healthz    liveness check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if addr == "" {
				addr = c.Config.Server.Addr
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(server.Config{
				Addr:        addr,
				Runner:      runner,
				Logger:      loggerFromContext(ctx),
				Unreachable: string(c.Config.UnreachablePolicy()),
			})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
