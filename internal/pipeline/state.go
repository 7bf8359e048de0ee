package pipeline

import (
	"time"

	"proposalradar/internal/dataprocessing"
	"proposalradar/pkg/contracts/domain"
)

// RunStatus represents the overall run status
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// OutputFile is a file written by the run
type OutputFile struct {
	Kind  string
	Path  string
	Bytes int64
}

// RunState carries one conversion from step to step
type RunState struct {
	ID        string
	Status    RunStatus
	StartTime time.Time
	EndTime   *time.Time
	Error     error

	// Steps by ID, in the order they were registered
	Steps     map[string]*StepState
	StepOrder []string

	// Data produced by the steps
	Records     []domain.RawRecord
	Proposals   []domain.Proposal
	Warnings    []dataprocessing.Warning
	Aggregation *dataprocessing.Aggregation
	Document    *domain.Document
	Outputs     []OutputFile
}

// NewRunState creates a new run state
func NewRunState(id string) *RunState {
	return &RunState{
		ID:        id,
		Status:    RunStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
	}
}

// Start marks the run as running
func (r *RunState) Start() {
	r.Status = RunStatusRunning
	r.StartTime = time.Now()
}

// Complete marks the run as completed
func (r *RunState) Complete() {
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCompleted
}

// Fail marks the run as failed
func (r *RunState) Fail(err error) {
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusFailed
	r.Error = err
}

// Cancel marks the run as cancelled
func (r *RunState) Cancel(err error) {
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCancelled
	r.Error = err
}

// AddStep registers the state of a step
func (r *RunState) AddStep(s *StepState) {
	r.Steps[s.ID] = s
	r.StepOrder = append(r.StepOrder, s.ID)
}

// GetStep returns the state of a specific step
func (r *RunState) GetStep(id string) *StepState {
	return r.Steps[id]
}

// Duration returns the wall time of the run so far
func (r *RunState) Duration() time.Duration {
	if r.EndTime != nil {
		return r.EndTime.Sub(r.StartTime)
	}
	return time.Since(r.StartTime)
}

// Summary holds the totals reported when a run completes
type Summary struct {
	Proposals     int
	Parties       int
	Dimensions    int
	Categories    int
	MaturityTypes int
	Warnings      int
	Outputs       []OutputFile
}

// Summary returns the totals of the run
func (r *RunState) Summary() Summary {
	s := Summary{
		Proposals: len(r.Proposals),
		Warnings:  len(r.Warnings),
		Outputs:   r.Outputs,
	}
	if r.Aggregation != nil {
		s.Parties = len(r.Aggregation.Parties)
		s.Dimensions = len(r.Aggregation.Dimensions)
		s.Categories = len(r.Aggregation.Categories)
		s.MaturityTypes = len(r.Aggregation.MaturityTypes)
	}
	return s
}
