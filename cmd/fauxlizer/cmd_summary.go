package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newSummaryCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "summary FILE",
		Short: "Validate a dataset and print its summary as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, c, args[0])
		},
	}
}

func runSummary(cmd *cobra.Command, c *cli, path string) error {
	svc, shutdown, err := c.datasetService()
	if err != nil {
		return err
	}
	defer shutdown()

	ctx := cmd.Context()
	if outcome := svc.Validate(ctx, path); !outcome.Valid {
		fmt.Fprintln(cmd.OutOrStdout(), outcome.String())
		return errInvalidDatasets
	}

	summary, err := svc.Summarize(ctx, path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
