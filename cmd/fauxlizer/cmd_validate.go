package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fauxlizer/internal/validation"
)

type validateFlags struct {
	dir     string
	pattern string
}

func newValidateCmd(c *cli) *cobra.Command {
	var flags validateFlags

	cmd := &cobra.Command{
		Use:   "validate [FILE...]",
		Short: "Validate one or more dataset files",
		Long: "Validate checks every file against the fauxness schema and prints one\n" +
			"line per file. The exit status is non-zero when any file is invalid.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, c, flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.dir, "dir", "", "validate every matching file in this directory")
	f.StringVar(&flags.pattern, "pattern", validation.DefaultDatasetPattern, "glob used with --dir")
	return cmd
}

func runValidate(cmd *cobra.Command, c *cli, flags validateFlags, args []string) error {
	paths := append([]string(nil), args...)
	if flags.dir != "" {
		found, err := validation.NewFileValidator(c.logger).FindDatasets(flags.dir, flags.pattern)
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files to validate: pass FILE arguments or --dir")
	}

	svc, shutdown, err := c.datasetService()
	if err != nil {
		return err
	}
	defer shutdown()

	outcomes, err := svc.ValidateAll(cmd.Context(), paths)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	invalid := 0
	for _, o := range outcomes {
		fmt.Fprintln(out, o.String())
		if !o.Valid {
			invalid++
		}
	}
	if invalid > 0 {
		return errInvalidDatasets
	}
	return nil
}
