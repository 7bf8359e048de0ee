package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"proposalradar/internal/infrastructure"
)

// Runner executes steps sequentially
type Runner struct {
	steps     []Step
	telemetry *infrastructure.Telemetry
	logger    *slog.Logger
}

// NewRunner creates a runner for steps, executed in the given order
func NewRunner(logger *slog.Logger, telemetry *infrastructure.Telemetry, steps ...Step) *Runner {
	return &Runner{
		steps:     steps,
		telemetry: telemetry,
		logger:    infrastructure.WithComponent(logger, "runner"),
	}
}

// Steps returns the IDs of the runner's steps in execution order
func (r *Runner) Steps() []string {
	ids := make([]string, 0, len(r.steps))
	for _, s := range r.steps {
		ids = append(ids, s.ID())
	}
	return ids
}

// Run executes every step against a fresh state. An empty runID takes the
// run ID of ctx, or a new one. The returned state is never nil; on failure it
// records which step failed and which were skipped.
func (r *Runner) Run(ctx context.Context, runID string) (*RunState, error) {
	if runID == "" {
		ctx = infrastructure.EnsureRunID(ctx)
		runID = infrastructure.GetRunID(ctx)
	} else {
		ctx = infrastructure.WithRunID(ctx, runID)
	}
	ctx, span := r.telemetry.StartSpan(ctx, "pipeline.run",
		attribute.String("run.id", runID),
		attribute.Int("run.step_count", len(r.steps)))
	defer span.End()

	state := NewRunState(runID)
	for _, s := range r.steps {
		state.AddStep(NewStepState(s.ID(), s.Name()))
	}

	state.Start()
	r.logger.InfoContext(ctx, "Run started", slog.Int("step_count", len(r.steps)))

	err := r.executeSequential(ctx, state)

	r.telemetry.RecordStep(ctx, span, "run", state.Duration(), err)
	r.telemetry.RecordRun(ctx, err)

	if err != nil {
		if ctx.Err() != nil {
			state.Cancel(err)
		} else {
			state.Fail(err)
		}
		r.logger.ErrorContext(ctx, "Run failed",
			slog.String("status", string(state.Status)),
			slog.Duration("duration", state.Duration()),
			slog.String("error", err.Error()))
		return state, err
	}

	state.Complete()
	r.logSummary(ctx, state)
	return state, nil
}

// executeSequential runs the steps in order and stops at the first failure
func (r *Runner) executeSequential(ctx context.Context, state *RunState) error {
	for i, step := range r.steps {
		if err := ctx.Err(); err != nil {
			r.logger.WarnContext(ctx, "Run cancelled",
				slog.String("step", step.ID()))
			r.skipRemaining(state, i, "run cancelled")
			return fmt.Errorf("run cancelled before step %s: %w", step.ID(), err)
		}

		r.logger.DebugContext(ctx, "Executing step",
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(r.steps)))

		if err := r.executeStep(ctx, state, step); err != nil {
			r.skipRemaining(state, i+1, fmt.Sprintf("previous step %s failed", step.ID()))
			return err
		}
	}
	return nil
}

// executeStep validates, runs and records a single step
func (r *Runner) executeStep(ctx context.Context, state *RunState, step Step) error {
	stepState := state.GetStep(step.ID())

	ctx, span := r.telemetry.StartSpan(ctx, "pipeline.step."+step.ID(),
		attribute.String("step.id", step.ID()),
		attribute.String("step.name", step.Name()))
	defer span.End()

	stepState.Start()
	start := time.Now()

	err := step.Validate(state)
	if err == nil {
		err = step.Execute(ctx, state)
	}
	duration := time.Since(start)

	r.telemetry.RecordStep(ctx, span, step.ID(), duration, err)

	if err != nil {
		stepState.Fail(err)
		r.logger.ErrorContext(ctx, "Step failed",
			slog.String("step", step.ID()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return err
	}

	stepState.Complete()
	attrs := []any{
		slog.String("step", step.ID()),
		slog.Duration("duration", duration),
	}
	for k, v := range stepState.Metadata {
		attrs = append(attrs, slog.Any(k, v))
	}
	r.logger.InfoContext(ctx, "Step completed", attrs...)
	return nil
}

// skipRemaining marks every step from index on as skipped
func (r *Runner) skipRemaining(state *RunState, from int, reason string) {
	for _, step := range r.steps[from:] {
		state.GetStep(step.ID()).Skip(reason)
	}
}

// logSummary reports the totals of a completed run
func (r *Runner) logSummary(ctx context.Context, state *RunState) {
	summary := state.Summary()

	outputs := make([]string, 0, len(summary.Outputs))
	for _, out := range summary.Outputs {
		outputs = append(outputs, out.Path)
	}

	r.logger.InfoContext(ctx, "Conversion completed",
		slog.Int("total_proposals", summary.Proposals),
		slog.Int("total_parties", summary.Parties),
		slog.Int("total_dimensions", summary.Dimensions),
		slog.Int("total_categories", summary.Categories),
		slog.Int("maturity_types", summary.MaturityTypes),
		slog.Int("warnings", summary.Warnings),
		slog.Any("outputs", outputs),
		slog.Duration("duration", state.Duration()))
}
