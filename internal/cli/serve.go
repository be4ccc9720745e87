package cli

import (
	"github.com/spf13/cobra"

	"github.com/citegraph/citegraph/internal/server"
)

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the citation proxy and render API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			src, backend, err := c.newSource(ctx, noCache)
			if err != nil {
				return err
			}
			defer backend.Close()

			if addr == "" {
				addr = c.Config.Server.Addr
			}

			server.RegisterMetricsHooks()
			return server.New(src, logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the API response cache")

	return cmd
}
