package cli

import (
	"github.com/spf13/cobra"

	"github.com/fontparts/partsmap/internal/server"
)

const defaultAddr = "localhost:8080"

// serveCommand creates the serve command for the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve diagrams, swatches and logotypes over HTTP",
		Long: `Serve the renderers over HTTP. Every request renders from the
configuration loaded at startup, overlaid with its query parameters.

  GET /diagram.{svg,png,json}
  GET /swatches.{svg,png}
  GET /logotype.{svg,png}
  GET /palette.json
  GET /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printInfo("Serving on %s", StyleValue.Render("http://"+addr))
			printKeyValue("config", configName(c.configPath))
			printDetail("ctrl+c to stop")
			return server.New(c.cfg, c.newRunner(), c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	return cmd
}

func configName(path string) string {
	if path == "" {
		return "defaults"
	}
	return path
}
