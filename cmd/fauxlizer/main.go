package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"fauxlizer/internal/app"
	"fauxlizer/internal/config"
	"fauxlizer/internal/infrastructure"
	"fauxlizer/internal/services"
	"fauxlizer/pkg/contracts"
)

// errInvalidDatasets is returned when at least one input fails validation.
// Its message is already printed per file, so main only sets the exit code.
var errInvalidDatasets = errors.New("one or more datasets failed validation")

// cli carries what the persistent pre-run loaded for the subcommands.
type cli struct {
	configFile string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Validate, summarize and extract rows from fauxness CSV files",
		Long: "fauxlizer checks experiment CSV files against the fauxness schema.\n" +
			"Files that pass can be summarized and have single rows extracted\n" +
			"as csv, json, native or xlsx.",
		Version:       contracts.GetFullVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.load(); err != nil {
				return err
			}
			cmd.SetContext(infrastructure.EnsureTraceID(cmd.Context()))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "path to a YAML config file (default: $FAUX_CONFIG_FILE or fauxlizer.yaml)")

	root.AddCommand(
		newValidateCmd(c),
		newSummaryCmd(c),
		newRowCmd(c),
		newServeCmd(c),
		newMCPCmd(c),
		newVersionCmd(),
	)
	return root
}

func (c *cli) load() error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.cfg = cfg
	c.logger = logger
	return nil
}

// datasetService builds a dataset service backed by freshly initialized
// telemetry. The returned func flushes the providers.
func (c *cli) datasetService() (*services.DatasetService, func(), error) {
	providers, err := infrastructure.InitializeOTel(c.cfg.Telemetry, c.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	shutdown := func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			c.logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}

	svc, err := app.NewDatasetService(c.cfg, providers, c.logger)
	if err != nil {
		shutdown()
		return nil, nil, err
	}
	return svc, shutdown, nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errInvalidDatasets) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
