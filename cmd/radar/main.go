// Package main provides the radar binary entry point.
// Radar converts a sheet of party technology proposals into the aggregated
// JSON document read by the proposals visualization.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"proposalradar/internal/config"
	"proposalradar/internal/infrastructure"
	"proposalradar/internal/pipeline"
	"proposalradar/pkg/contracts"
)

// shutdownTimeout bounds the telemetry flush after a run
const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd(os.Stderr).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// options are the command line overrides, applied after file and env config
type options struct {
	configPath string
	input      string
	output     string
	summaryCSV string
	dryRun     bool
	logLevel   string
	logFormat  string
}

func rootCmd(stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   config.BinaryName,
		Short: config.AppName + ": convert party technology proposals into the radar JSON document",
		Long: `Radar reads a CSV or XLSX sheet with one technology proposal per row
(party, dimension, technology category, verbatim quote, maturity) and writes
one aggregated JSON document with per-party, per-dimension and per-category
statistics.

Configuration is read from radar.yaml (or --config), then RADAR_* environment
variables, then these flags.`,
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), cmd, opts, stderr)
			if err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
			}
			return err
		},
	}

	cmd.SetErr(stderr)
	cmd.SetVersionTemplate(contracts.GetFullVersionString() + "\n")

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Source sheet (.csv or .xlsx)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output JSON document")
	cmd.Flags().StringVar(&opts.summaryCSV, "summary-csv", "", "Also write a per-party summary CSV")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Load and aggregate without writing files")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "", "Log format (json, text)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
		},
	})

	return cmd
}

// applyFlags overlays the flags the user actually set onto cfg
func applyFlags(cmd *cobra.Command, opts options, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Pipeline.InputPath = opts.input
	}
	if flags.Changed("output") {
		cfg.Pipeline.OutputPath = opts.output
	}
	if flags.Changed("summary-csv") {
		cfg.Pipeline.SummaryCSVPath = opts.summaryCSV
	}
	if flags.Changed("dry-run") {
		cfg.Pipeline.DryRun = opts.dryRun
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = opts.logFormat
	}
}

func run(ctx context.Context, cmd *cobra.Command, opts options, stderr io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	paths := cfg.Paths()
	logCfg := cfg.Logging
	logCfg.FilePath = paths.LogFile
	logger, err := infrastructure.InitializeLoggerWithWriter(logCfg, stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	runID := infrastructure.GenerateRunID()
	ctx = infrastructure.WithRunID(ctx, runID)

	logger.InfoContext(ctx, "Starting conversion",
		append([]any{
			slog.String("version", contracts.GetVersionString()),
			slog.Bool("dry_run", cfg.Pipeline.DryRun),
		}, paths.LogAttrs()...)...)

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, paths, runID, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			infrastructure.WithError(logger, err).Warn("Telemetry shutdown failed")
		}
	}()

	_, err = pipeline.New(cfg, logger, telemetry).Run(ctx, runID)
	return err
}
