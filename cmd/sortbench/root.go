package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/spec"
	"github.com/DjordjeVuckovic/sortbench/pkg/config/env"
	"github.com/DjordjeVuckovic/sortbench/pkg/logger"
)

const defaultEnvPath = ".env"

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "sortbench",
		Short: "Benchmark classic sorting algorithms against a reference sort",
		Long: `sortbench times insertion sort, merge sort and an adaptive reference sort
on generated integer datasets and writes a CSV table, a Markdown report
with measured conclusions, a JSON report and Prometheus metrics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := env.LoadDotEnv(defaultEnvPath); err != nil {
				return fmt.Errorf("load .env: %w", err)
			}
			// flags win; otherwise the environment, which now includes .env
			if !cmd.Flags().Changed("log-level") {
				opts.logLevel = envOr("LOG_LEVEL", "info")
			}
			if !cmd.Flags().Changed("log-format") {
				opts.logFormat = envOr("LOG_FORMAT", logger.FormatText)
			}
			_, err := logger.Init(opts.logLevel, opts.logFormat)
			return err
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "bench spec YAML (defaults reproduce the standard grid)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (default $LOG_LEVEL or info)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format: text or json (default $LOG_FORMAT or text)")

	cmd.AddCommand(
		newRunCmd(opts),
		newCompareCmd(opts),
		newHistoryCmd(opts),
		newReportCmd(opts),
		newServeCmd(opts),
		newSchemaCmd(opts),
	)
	return cmd
}

// loadSpec reads the spec file, or returns the defaults when none is given.
func (o *rootOptions) loadSpec() (*spec.BenchSpec, error) {
	if o.configPath == "" {
		return spec.Default(), nil
	}
	return spec.LoadFromFile(o.configPath)
}
