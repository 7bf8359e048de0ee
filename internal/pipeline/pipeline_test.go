package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proposalradar/internal/config"
	apperrors "proposalradar/internal/errors"
	"proposalradar/internal/shared/testutil"
	"proposalradar/pkg/contracts/domain"
)

// testConfig returns a config rooted in a temp dir. source is written as the
// input sheet verbatim, except "example" which writes testutil.ExampleRows.
func testConfig(t *testing.T, source string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "public", "data"), 0755))
	switch source {
	case "":
	case "example":
		testutil.WriteProposalsCSV(t, filepath.Join(dir, config.DefaultInputPath), testutil.ExampleRows)
	default:
		require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultInputPath), []byte(source), 0644))
	}

	cfg := config.Default()
	cfg.Pipeline.BaseDir = dir
	require.NoError(t, cfg.Validate())
	return cfg
}

func readDocument(t *testing.T, path string) domain.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc domain.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestPipeline_EndToEnd(t *testing.T) {
	cfg := testConfig(t, "example")
	cfg.Pipeline.SummaryCSVPath = "public/data/parties.csv"
	tel := newTestTelemetry(t)

	runner := New(cfg, discardLogger(), tel)
	assert.Equal(t, []string{StepLoad, StepNormalize, StepAggregate, StepSerialize}, runner.Steps())

	state, err := runner.Run(context.Background(), "e2e")
	require.NoError(t, err)

	require.Len(t, state.Warnings, 1)
	assert.Equal(t, 2, state.Warnings[0].ID)

	doc := readDocument(t, cfg.Paths().Output)
	assert.Equal(t, []string{"PartyA"}, doc.Parties)
	assert.Equal(t, "2026", doc.Metadata.GeneratedAt)
	assert.Equal(t, 2, doc.Metadata.TotalProposals)

	stats := doc.Statistics.ByParty["PartyA"]
	assert.Equal(t, 2, stats.TotalProposals)
	assert.Equal(t, map[string]int{"Programmatic": 1, "Declarative": 1}, stats.MaturityCounts)
	assert.Equal(t, 3.0, stats.AvgMaturity)
	assert.Equal(t, 1, stats.TechCounts["AI"])
	assert.Equal(t, 1, stats.TechCounts["Digital"])

	assert.FileExists(t, cfg.Paths().SummaryCSV)
	require.Len(t, state.Outputs, 2)
	assert.Equal(t, "json", state.Outputs[0].Kind)
	assert.Equal(t, "summary_csv", state.Outputs[1].Kind)

	summary := state.Summary()
	assert.Equal(t, Summary{
		Proposals:     2,
		Parties:       1,
		Dimensions:    1,
		Categories:    1,
		MaturityTypes: 4,
		Warnings:      1,
		Outputs:       state.Outputs,
	}, summary)

	assert.Equal(t, 2.0, counterValue(t, tel, "radar_records_loaded", "", ""))
	assert.Equal(t, 1.0, counterValue(t, tel, "radar_maturity_coercions", "", ""))
}

func TestPipeline_DryRunWritesNothing(t *testing.T) {
	cfg := testConfig(t, "example")
	cfg.Pipeline.DryRun = true
	cfg.Pipeline.SummaryCSVPath = "public/data/parties.csv"

	state, err := New(cfg, discardLogger(), newTestTelemetry(t)).Run(context.Background(), "dry")

	require.NoError(t, err)
	require.NotNil(t, state.Document)
	assert.Equal(t, 2, state.Document.Metadata.TotalProposals)
	assert.Empty(t, state.Outputs)
	assert.NoFileExists(t, cfg.Paths().Output)
	assert.NoFileExists(t, cfg.Paths().SummaryCSV)
}

func TestPipeline_GeneratedAtNow(t *testing.T) {
	cfg := testConfig(t, "example")
	cfg.Pipeline.GeneratedAt = config.GeneratedAtNow

	_, err := New(cfg, discardLogger(), newTestTelemetry(t)).Run(context.Background(), "now")
	require.NoError(t, err)

	doc := readDocument(t, cfg.Paths().Output)
	_, parseErr := time.Parse(time.RFC3339, doc.Metadata.GeneratedAt)
	assert.NoError(t, parseErr)
}

func TestPipeline_Failures(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		mutate     func(cfg *config.Config)
		wantErr    error
		failedStep string
	}{
		{
			name:       "missing source",
			wantErr:    apperrors.ErrSourceNotFound,
			failedStep: StepLoad,
		},
		{
			name:       "short row",
			source:     "Party,Dimension,Technology Category,Verbatim Proposal Quote,Maturity\nPartyA,Econ\n",
			wantErr:    apperrors.ErrMalformedRow,
			failedStep: StepNormalize,
		},
		{
			name:   "missing output directory",
			source: "example",
			mutate: func(cfg *config.Config) {
				cfg.Pipeline.OutputPath = "absent/proposals.json"
			},
			wantErr:    apperrors.ErrSinkUnwritable,
			failedStep: StepSerialize,
		},
		{
			name:   "output would overwrite source",
			source: "example",
			mutate: func(cfg *config.Config) {
				cfg.Pipeline.OutputPath = config.DefaultInputPath
			},
			wantErr:    apperrors.ErrSinkUnwritable,
			failedStep: StepSerialize,
		},
		{
			name:   "summary csv shares the output path",
			source: "example",
			mutate: func(cfg *config.Config) {
				cfg.Pipeline.SummaryCSVPath = config.DefaultOutputPath
			},
			wantErr:    apperrors.ErrSinkUnwritable,
			failedStep: StepSerialize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, tt.source)
			if tt.mutate != nil {
				tt.mutate(cfg)
			}

			state, err := New(cfg, discardLogger(), newTestTelemetry(t)).Run(context.Background(), "fail")

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, RunStatusFailed, state.Status)
			assert.Equal(t, StepStatusFailed, state.GetStep(tt.failedStep).Status)
			assert.NoFileExists(t, filepath.Join(cfg.Pipeline.BaseDir, config.DefaultOutputPath))
		})
	}
}

func TestPipeline_Idempotent(t *testing.T) {
	cfg := testConfig(t, "example")
	runner := New(cfg, discardLogger(), newTestTelemetry(t))

	_, err := runner.Run(context.Background(), "first")
	require.NoError(t, err)
	first, err := os.ReadFile(cfg.Paths().Output)
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), "second")
	require.NoError(t, err)
	second, err := os.ReadFile(cfg.Paths().Output)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
