package main

import (
	"github.com/spf13/cobra"

	"fauxlizer/internal/app"
)

type serveFlags struct {
	port    int
	dataDir string
}

func newServeCmd(c *cli) *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: "Serve exposes validation, summaries and row extraction over HTTP.\n" +
			"Dataset paths in requests are resolved inside the data directory.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				c.cfg.Server.Port = flags.port
			}
			if cmd.Flags().Changed("data-dir") {
				c.cfg.Server.DataDir = flags.dataDir
			}
			if err := c.cfg.Validate(); err != nil {
				return err
			}

			application, err := app.NewApplication(c.cfg, c.logger)
			if err != nil {
				return err
			}
			return application.Run(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.IntVar(&flags.port, "port", 0, "listen port (overrides config)")
	f.StringVar(&flags.dataDir, "data-dir", "", "directory request paths resolve against (overrides config)")
	return cmd
}
