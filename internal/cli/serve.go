package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wikimap/pkg/observability"
	"github.com/matzehuels/wikimap/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mind map HTTP API",
		Long: `Serve the mind map HTTP API.

Routes: POST /generate, POST /save, GET /load/{name}, POST /delete/{name},
GET /list, GET /healthz and GET /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") && c.Config.Server.Addr != "" {
				addr = c.Config.Server.Addr
			}
			metrics := c.Config.Server.Metrics && !noMetrics
			return c.runServe(cmd.Context(), addr, metrics, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable /metrics")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, metrics, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	store, err := c.newStore(ctx)
	if err != nil {
		return fmt.Errorf("open snapshots: %w", err)
	}
	defer store.Close(context.WithoutCancel(ctx))

	opts := server.Options{
		Runner:      runner,
		Store:       store,
		Logger:      c.Logger,
		Concurrency: c.Config.Fetch.Concurrency,
		Timeout:     c.Config.Fetch.Timeout,
	}
	if metrics {
		prom := observability.NewPrometheus(nil)
		observability.Register(prom)
		defer observability.Reset()
		opts.Metrics = prom
	}

	printInfo("Listening on %s", StyleLink.Render(addr))
	return server.New(opts).ListenAndServe(ctx, addr)
}
