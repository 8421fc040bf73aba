package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fauxlizer/internal/config"
	"fauxlizer/pkg/contracts"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Skip config loading so version works without a valid config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			info := contracts.GetVersionInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", config.AppName, info.Version)
			fmt.Fprintf(out, "  build:  %s\n", info.BuildTime)
			fmt.Fprintf(out, "  commit: %s\n", info.GitCommit)
			fmt.Fprintf(out, "  api:    %s\n", info.APIVersion)
		},
	}
}
