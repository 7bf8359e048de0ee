package pipeline

import (
	"context"
	"time"
)

// Step represents a single step of a run
type Step interface {
	// ID returns the unique identifier for this step
	ID() string

	// Name returns the human-readable name for this step
	Name() string

	// Validate checks that the step can run with the current state
	Validate(state *RunState) error

	// Execute runs the step, reading and filling state
	Execute(ctx context.Context, state *RunState) error
}

// StepStatus represents the current status of a step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState represents the runtime state of a step
type StepState struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Status    StepStatus             `json:"status"`
	StartTime *time.Time             `json:"start_time,omitempty"`
	EndTime   *time.Time             `json:"end_time,omitempty"`
	Message   string                 `json:"message"`
	Error     error                  `json:"-"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewStepState creates a new step state with default values
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:       id,
		Name:     name,
		Status:   StepStatusPending,
		Metadata: make(map[string]interface{}),
	}
}

// Start marks the step as active and sets the start time
func (s *StepState) Start() {
	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the step as completed and sets the end time
func (s *StepState) Complete() {
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
}

// Fail marks the step as failed with the given error
func (s *StepState) Fail(err error) {
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Error = err
}

// Skip marks the step as skipped with the given reason
func (s *StepState) Skip(reason string) {
	s.Status = StepStatusSkipped
	s.Message = reason
}

// SetMetadata attaches a value reported in the step log line
func (s *StepState) SetMetadata(key string, value interface{}) {
	s.Metadata[key] = value
}

// Duration returns the duration of the step execution
func (s *StepState) Duration() time.Duration {
	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

// BaseStep provides the identity half of a Step
type BaseStep struct {
	id   string
	name string
}

// NewBaseStep creates a new base step
func NewBaseStep(id, name string) BaseStep {
	return BaseStep{id: id, name: name}
}

// ID returns the step ID
func (b *BaseStep) ID() string {
	return b.id
}

// Name returns the step name
func (b *BaseStep) Name() string {
	return b.name
}
