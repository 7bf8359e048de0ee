package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"proposalradar/internal/config"
	"proposalradar/pkg/contracts"
)

// MeterName is the instrumentation scope of every span and instrument
const MeterName = "proposalradar"

// Telemetry holds the tracing and metrics providers of one run.
// Tracing is a no-op unless enabled; metrics always go to a private
// Prometheus registry that can be dumped to a textfile at shutdown.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *prometheus.Registry
	Metrics        *PipelineMetrics

	metricsFile string
	traceFile   *os.File
	logger      *slog.Logger
}

// PipelineMetrics are the instruments recorded by the pipeline runner
type PipelineMetrics struct {
	RecordsLoaded     metric.Int64Counter
	MaturityCoercions metric.Int64Counter
	OutputBytes       metric.Int64Counter
	Runs              metric.Int64Counter
	StepDuration      metric.Float64Histogram
}

// InitializeTelemetry sets up tracing and metrics for a run
func InitializeTelemetry(cfg config.TelemetryConfig, paths config.Paths, runID string, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(contracts.Version),
		attribute.String("service.instance.id", runID),
	)

	t := &Telemetry{
		metricsFile: paths.MetricsFile,
		logger:      logger,
	}

	if err := t.initializeTracing(cfg, paths.TraceFile, res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := t.initializeMetrics(res); err != nil {
		t.closeTraceFile()
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.Debug("Telemetry initialized",
		slog.Bool("tracing_enabled", cfg.EnableTracing),
		slog.String("trace_file", paths.TraceFile),
		slog.String("metrics_file", paths.MetricsFile))

	return t, nil
}

// initializeTracing exports spans as JSON to the trace file when enabled
func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, traceFile string, res *resource.Resource) error {
	if !cfg.EnableTracing {
		t.Tracer = noop.NewTracerProvider().Tracer(MeterName)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(traceFile), 0755); err != nil {
		return fmt.Errorf("failed to create trace directory: %w", err)
	}
	f, err := os.Create(traceFile)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(f),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	t.traceFile = f
	t.TracerProvider = tp
	t.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(contracts.Version))
	return nil
}

// initializeMetrics wires the OTel meter provider onto a private registry
func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(
		otelprom.WithRegisterer(registry),
		otelprom.WithoutTargetInfo(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	t.Registry = registry
	t.MeterProvider = mp
	t.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(contracts.Version))

	t.Metrics, err = CreatePipelineMetrics(t.Meter)
	return err
}

// CreatePipelineMetrics creates the pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	recordsLoaded, err := meter.Int64Counter(
		"radar_records_loaded",
		metric.WithDescription("Total number of source rows loaded"),
	)
	if err != nil {
		return nil, err
	}

	coercions, err := meter.Int64Counter(
		"radar_maturity_coercions",
		metric.WithDescription("Total number of maturity values replaced by the default"),
	)
	if err != nil {
		return nil, err
	}

	outputBytes, err := meter.Int64Counter(
		"radar_output_bytes",
		metric.WithDescription("Total bytes written to output files"),
	)
	if err != nil {
		return nil, err
	}

	runs, err := meter.Int64Counter(
		"radar_runs",
		metric.WithDescription("Total number of pipeline runs by status"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"radar_step_duration",
		metric.WithDescription("Pipeline step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RecordsLoaded:     recordsLoaded,
		MaturityCoercions: coercions,
		OutputBytes:       outputBytes,
		Runs:              runs,
		StepDuration:      stepDuration,
	}, nil
}

// StartSpan starts a span on the run tracer
func (t *Telemetry) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordStep records a finished step on its span and in the duration histogram
func (t *Telemetry) RecordStep(ctx context.Context, span trace.Span, step string, duration time.Duration, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	t.Metrics.StepDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String("step", step)))
}

// RecordRun counts a finished run by status
func (t *Telemetry) RecordRun(ctx context.Context, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	t.Metrics.Runs.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// WriteMetricsFile dumps the registry in the textfile collector format.
// It is a no-op when no metrics file is configured.
func (t *Telemetry) WriteMetricsFile() error {
	if t.metricsFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(t.metricsFile), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(t.metricsFile, t.Registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}

// Shutdown writes the metrics file, then flushes and stops both providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if err := t.WriteMetricsFile(); err != nil {
		errs = append(errs, err)
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if err := t.closeTraceFile(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (t *Telemetry) closeTraceFile() error {
	if t.traceFile == nil {
		return nil
	}
	err := t.traceFile.Close()
	t.traceFile = nil
	return err
}
