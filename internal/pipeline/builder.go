package pipeline

import (
	"log/slog"
	"time"
	"unicode/utf8"

	"proposalradar/internal/config"
	"proposalradar/internal/dataprocessing"
	"proposalradar/internal/exporter"
	"proposalradar/internal/infrastructure"
	"proposalradar/internal/validation"
)

// New builds the standard load, normalize, aggregate, serialize runner
// from a validated configuration
func New(cfg *config.Config, logger *slog.Logger, telemetry *infrastructure.Telemetry) *Runner {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	paths := cfg.Paths()
	metrics := telemetry.Metrics
	validator := validation.NewFileValidator(logger)

	delimiter, _ := utf8.DecodeRuneInString(cfg.Pipeline.Delimiter)
	loader := dataprocessing.NewLoader(logger, dataprocessing.LoaderOptions{
		Delimiter: delimiter,
		Sheet:     cfg.Pipeline.Sheet,
	})

	serialize := NewSerializeStep(SerializeOptions{
		OutputPath:     paths.Output,
		SummaryCSVPath: paths.SummaryCSV,
		SourcePath:     paths.Input,
		GeneratedAt:    cfg.Pipeline.GeneratedAt,
		DryRun:         cfg.Pipeline.DryRun,
		Now:            time.Now,
	}, exporter.NewJSONWriter(logger), exporter.NewCSVWriter(logger), validator, metrics, logger)

	return NewRunner(logger, telemetry,
		NewLoadStep(paths.Input, loader, validator, metrics),
		NewNormalizeStep(dataprocessing.NewNormalizer(logger, cfg.Columns), metrics),
		NewAggregateStep(dataprocessing.NewAggregator(logger)),
		serialize,
	)
}
