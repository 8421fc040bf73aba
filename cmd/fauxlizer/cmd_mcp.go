package main

import (
	"github.com/spf13/cobra"

	"fauxlizer/internal/mcp"
)

func newMCPCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the dataset tools over MCP on stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, shutdown, err := c.datasetService()
			if err != nil {
				return err
			}
			defer shutdown()

			return mcp.NewServer(svc, c.logger).Run(cmd.Context())
		},
	}
}
