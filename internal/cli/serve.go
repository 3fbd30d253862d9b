package cli

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meetingkit/internal/server"
	"github.com/matzehuels/meetingkit/pkg/observability/prom"
	"github.com/matzehuels/meetingkit/pkg/registry"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the client registry over HTTP",
		Long: `Serve the registry endpoints (/clients, /config), the webhook receiver
(/webhook) and Prometheus metrics (/metrics) until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			promReg := prometheus.NewRegistry()
			promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			collector := prom.NewCollector(promReg)
			collector.Install()

			reg, respCache, err := c.newRegistry(cfg, registry.WithHooks(collector))
			if err != nil {
				return err
			}
			defer respCache.Close()

			logger := loggerFromContext(cmd.Context())
			h := server.New(reg, server.WithLogger(logger), server.WithGatherer(promReg))

			err = server.Run(cmd.Context(), addr, h, logger)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")

	return cmd
}
