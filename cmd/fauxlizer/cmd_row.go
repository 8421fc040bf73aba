package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"fauxlizer/internal/exporter"
)

type rowFlags struct {
	format string
	output string
}

func newRowCmd(c *cli) *cobra.Command {
	var flags rowFlags

	cmd := &cobra.Command{
		Use:   "row FILE INDEX",
		Short: "Validate a dataset and print one data row",
		Long: "Row prints the data row at the 0-based INDEX. The header row is not\n" +
			"counted. Formats: csv, json, native, xlsx. xlsx requires --output.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRow(cmd, c, flags, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.format, "format", "f", string(exporter.FormatCSV), fmt.Sprintf("row format %v", exporter.Formats()))
	f.StringVarP(&flags.output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func runRow(cmd *cobra.Command, c *cli, flags rowFlags, path, rawIndex string) error {
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		return fmt.Errorf("invalid row index %q", rawIndex)
	}

	format, err := exporter.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	if format == exporter.FormatXLSX && flags.output == "" {
		return fmt.Errorf("xlsx output is binary; use --output")
	}

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

	export, err := svc.GetRow(ctx, path, index, string(format))
	if err != nil {
		return err
	}

	data := export.Data
	if export.Format == exporter.FormatNative {
		data = nativeText(export)
	}

	if flags.output != "" {
		if err := os.WriteFile(flags.output, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", flags.output, err)
		}
		c.logger.Info("row written",
			slog.String("path", path),
			slog.Int("index", index),
			slog.String("format", string(export.Format)),
			slog.String("output", flags.output))
		return nil
	}
	return writeAll(cmd.OutOrStdout(), data)
}

// nativeText renders the native mapping one "column: value" per line.
func nativeText(export *exporter.Export) []byte {
	var b []byte
	for _, cell := range export.Row.Cells {
		b = fmt.Appendf(b, "%s: %s\n", cell.Name, cell.Value)
	}
	return b
}

func writeAll(w io.Writer, data []byte) error {
	_, err := w.Write(data)
	return err
}
