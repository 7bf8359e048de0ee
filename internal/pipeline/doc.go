// Package pipeline runs a conversion as an ordered list of steps.
//
// A Runner executes its steps one after another against a shared RunState.
// Each step is validated, traced and timed; the first failing step aborts the
// run and the steps after it are marked skipped. Cancelling the context stops
// the run before the next step starts.
//
// The standard conversion is load, normalize, aggregate and serialize:
//
//	runner, err := pipeline.New(cfg, logger, telemetry)
//	state, err := runner.Run(ctx, runID)
package pipeline
