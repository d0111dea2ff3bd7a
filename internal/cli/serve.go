package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railyard/internal/server"
	"github.com/matzehuels/railyard/pkg/config"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve the layout pipeline over HTTP.

Endpoints:
  GET  /healthz      build information
  POST /v1/tree      pattern to syntax tree
  POST /v1/layout    pattern or tree to diagram document
  POST /v1/render    pattern or tree to artifact (?format=svg|png|pdf|json|msgpack|dot)

Defaults for layout and rendering come from the config file. The server
stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			backend := cfg.Cache.Backend
			if noCache {
				backend = config.BackendNone
			}
			printKeyValue("Cache", backend)
			printKeyValue("Max body", fmt.Sprintf("%d bytes", cfg.Server.MaxBodyBytes))
			return c.runServe(cmd.Context(), cfg.Server.Addr, cfg.Server.MaxBodyBytes, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, maxBody int64, noCache bool) error {
	base, err := c.baseOptions()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(runner, c.Logger,
		server.WithDefaults(base),
		server.WithMaxBodyBytes(maxBody),
	)

	printInfo("Listening on %s", StyleLink.Render("http://"+displayAddr(addr)))
	return srv.ListenAndServe(ctx, addr)
}

// displayAddr turns ":8080" into "localhost:8080" for printing.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
