package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"proposalradar/internal/dataprocessing"
	"proposalradar/internal/exporter"
	"proposalradar/internal/infrastructure"
	"proposalradar/internal/validation"
)

// Step IDs of the standard conversion
const (
	StepLoad      = "load"
	StepNormalize = "normalize"
	StepAggregate = "aggregate"
	StepSerialize = "serialize"
)

// LoadStep reads the source sheet into raw records
type LoadStep struct {
	BaseStep
	path      string
	loader    *dataprocessing.Loader
	validator *validation.FileValidator
	metrics   *infrastructure.PipelineMetrics
}

// NewLoadStep creates the load step for path
func NewLoadStep(path string, loader *dataprocessing.Loader, validator *validation.FileValidator, metrics *infrastructure.PipelineMetrics) *LoadStep {
	return &LoadStep{
		BaseStep:  NewBaseStep(StepLoad, "Load source"),
		path:      path,
		loader:    loader,
		validator: validator,
		metrics:   metrics,
	}
}

// Validate checks that the source exists and is readable
func (s *LoadStep) Validate(state *RunState) error {
	return s.validator.ValidateSource(s.path)
}

// Execute loads the records into state
func (s *LoadStep) Execute(ctx context.Context, state *RunState) error {
	records, err := s.loader.Load(ctx, s.path)
	if err != nil {
		return err
	}
	state.Records = records

	if s.metrics != nil {
		s.metrics.RecordsLoaded.Add(ctx, int64(len(records)))
	}
	state.GetStep(s.ID()).SetMetadata("record_count", len(records))
	return nil
}

// NormalizeStep turns raw records into proposals
type NormalizeStep struct {
	BaseStep
	normalizer *dataprocessing.Normalizer
	metrics    *infrastructure.PipelineMetrics
}

// NewNormalizeStep creates the normalize step
func NewNormalizeStep(normalizer *dataprocessing.Normalizer, metrics *infrastructure.PipelineMetrics) *NormalizeStep {
	return &NormalizeStep{
		BaseStep:   NewBaseStep(StepNormalize, "Normalize records"),
		normalizer: normalizer,
		metrics:    metrics,
	}
}

// Validate requires the load step to have run
func (s *NormalizeStep) Validate(state *RunState) error {
	if state.Records == nil {
		return errors.New("no records loaded")
	}
	return nil
}

// Execute normalizes the records and keeps the warnings
func (s *NormalizeStep) Execute(ctx context.Context, state *RunState) error {
	proposals, warnings, err := s.normalizer.Normalize(ctx, state.Records)
	if err != nil {
		return err
	}
	state.Proposals = proposals
	state.Warnings = warnings

	if s.metrics != nil && len(warnings) > 0 {
		s.metrics.MaturityCoercions.Add(ctx, int64(len(warnings)))
	}
	stepState := state.GetStep(s.ID())
	stepState.SetMetadata("proposal_count", len(proposals))
	stepState.SetMetadata("warning_count", len(warnings))
	return nil
}

// AggregateStep computes vocabularies and statistics
type AggregateStep struct {
	BaseStep
	aggregator *dataprocessing.Aggregator
}

// NewAggregateStep creates the aggregate step
func NewAggregateStep(aggregator *dataprocessing.Aggregator) *AggregateStep {
	return &AggregateStep{
		BaseStep:   NewBaseStep(StepAggregate, "Aggregate statistics"),
		aggregator: aggregator,
	}
}

// Validate requires the normalize step to have run
func (s *AggregateStep) Validate(state *RunState) error {
	if state.Proposals == nil {
		return errors.New("no normalized proposals")
	}
	return nil
}

// Execute aggregates the proposals
func (s *AggregateStep) Execute(ctx context.Context, state *RunState) error {
	agg := s.aggregator.Aggregate(ctx, state.Proposals)
	state.Aggregation = &agg

	state.GetStep(s.ID()).SetMetadata("party_count", len(agg.Parties))
	return nil
}

// SerializeOptions configures the serialize step
type SerializeOptions struct {
	OutputPath     string
	SummaryCSVPath string
	SourcePath     string
	GeneratedAt    string
	DryRun         bool
	Now            func() time.Time
}

// SerializeStep assembles the document and writes the outputs
type SerializeStep struct {
	BaseStep
	opts       SerializeOptions
	jsonWriter *exporter.JSONWriter
	csvWriter  *exporter.CSVWriter
	validator  *validation.FileValidator
	metrics    *infrastructure.PipelineMetrics
	logger     *slog.Logger
}

// NewSerializeStep creates the serialize step
func NewSerializeStep(opts SerializeOptions, jsonWriter *exporter.JSONWriter, csvWriter *exporter.CSVWriter,
	validator *validation.FileValidator, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *SerializeStep {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SerializeStep{
		BaseStep:   NewBaseStep(StepSerialize, "Write outputs"),
		opts:       opts,
		jsonWriter: jsonWriter,
		csvWriter:  csvWriter,
		validator:  validator,
		metrics:    metrics,
		logger:     infrastructure.WithComponent(logger, "serialize"),
	}
}

// Validate checks the output locations unless nothing will be written
func (s *SerializeStep) Validate(state *RunState) error {
	if state.Aggregation == nil {
		return errors.New("no aggregation")
	}
	if s.opts.DryRun {
		return nil
	}

	if err := s.validator.ValidateDistinct(s.opts.SourcePath, s.opts.OutputPath, s.opts.SummaryCSVPath); err != nil {
		return err
	}
	if err := s.validator.ValidateSink(s.opts.OutputPath); err != nil {
		return err
	}
	if s.opts.SummaryCSVPath != "" {
		return s.validator.ValidateSink(s.opts.SummaryCSVPath)
	}
	return nil
}

// Execute builds the document and writes it, plus the party summary when
// configured. A dry run only builds the document.
func (s *SerializeStep) Execute(ctx context.Context, state *RunState) error {
	generatedAt := exporter.ResolveGeneratedAt(s.opts.GeneratedAt, s.opts.Now)
	doc := exporter.BuildDocument(state.Proposals, *state.Aggregation, generatedAt)
	state.Document = &doc

	stepState := state.GetStep(s.ID())
	if s.opts.DryRun {
		s.logger.InfoContext(ctx, "Dry run, no files written",
			slog.String("output_path", s.opts.OutputPath))
		stepState.SetMetadata("dry_run", true)
		return nil
	}

	n, err := s.jsonWriter.WriteDocument(ctx, s.opts.OutputPath, doc)
	if err != nil {
		return err
	}
	s.recordOutput(ctx, state, "json", s.opts.OutputPath, n)

	if s.opts.SummaryCSVPath != "" {
		n, err := s.csvWriter.WritePartySummary(ctx, s.opts.SummaryCSVPath, doc)
		if err != nil {
			return fmt.Errorf("party summary: %w", err)
		}
		s.recordOutput(ctx, state, "summary_csv", s.opts.SummaryCSVPath, n)
	}

	stepState.SetMetadata("output_count", len(state.Outputs))
	return nil
}

func (s *SerializeStep) recordOutput(ctx context.Context, state *RunState, kind, path string, n int64) {
	state.Outputs = append(state.Outputs, OutputFile{Kind: kind, Path: path, Bytes: n})
	if s.metrics != nil {
		s.metrics.OutputBytes.Add(ctx, n)
	}
}
