package config

import (
	"log/slog"
	"path/filepath"
)

// Paths contains every resolved file location of a run.
// This is the single source of truth for file paths; relative entries of the
// configuration are joined onto BaseDir. Optional outputs stay empty when unset.
type Paths struct {
	BaseDir     string
	Input       string
	Output      string
	SummaryCSV  string
	LogFile     string
	TraceFile   string
	MetricsFile string
}

// Paths resolves the configured locations against the base directory
func (c *Config) Paths() Paths {
	base := c.Pipeline.BaseDir
	return Paths{
		BaseDir:     base,
		Input:       resolvePath(base, c.Pipeline.InputPath),
		Output:      resolvePath(base, c.Pipeline.OutputPath),
		SummaryCSV:  resolvePath(base, c.Pipeline.SummaryCSVPath),
		LogFile:     resolvePath(base, c.Logging.FilePath),
		TraceFile:   resolvePath(base, c.Telemetry.TraceFile),
		MetricsFile: resolvePath(base, c.Telemetry.MetricsFile),
	}
}

// resolvePath joins a relative path onto base; absolute and empty paths pass through
func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// LogAttrs returns the resolved paths as log attributes
func (p Paths) LogAttrs() []any {
	return []any{
		slog.String("base_dir", p.BaseDir),
		slog.String("input", p.Input),
		slog.String("output", p.Output),
		slog.String("summary_csv", p.SummaryCSV),
		slog.String("metrics_file", p.MetricsFile),
		slog.String("trace_file", p.TraceFile),
	}
}
