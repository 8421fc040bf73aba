package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"fauxlizer/internal/config"
)

const (
	// InstrumentationName names the tracer and meter used across the module.
	InstrumentationName = "fauxlizer"
)

// OTelProviders holds the OpenTelemetry providers. Tracer and Meter are
// never nil; they fall back to no-op implementations when disabled.
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// InitializeOTel sets up tracing and metrics from the telemetry config.
func InitializeOTel(cfg config.TelemetryConfig, logger *slog.Logger) (*OTelProviders, error) {
	if logger == nil {
		logger = GetLogger()
	}
	ctx := context.Background()

	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providers := &OTelProviders{
		Tracer: tracenoop.NewTracerProvider().Tracer(InstrumentationName),
		Meter:  noop.NewMeterProvider().Meter(InstrumentationName),
		Logger: logger,
	}

	if err := initializeTracing(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.DebugContext(ctx, "OpenTelemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metric_exporter", cfg.MetricExporter))

	return providers, nil
}

func createResource(cfg config.TelemetryConfig) (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(config.AppVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", generateInstanceID()),
	), nil
}

func initializeTracing(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource, providers *OTelProviders) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "stdout":
		// Spans go to stderr; stdout carries command output.
		exporter, err = stdouttrace.New(
			stdouttrace.WithWriter(os.Stderr),
			stdouttrace.WithPrettyPrint(),
		)
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(InstrumentationName, trace.WithInstrumentationVersion(config.AppVersion))
	otel.SetTracerProvider(tp)

	providers.Logger.DebugContext(ctx, "Tracing initialized",
		slog.String("exporter", cfg.TraceExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))
	return nil
}

// initializeMetrics wires the OTel Prometheus exporter to a private registry
// so repeated initialization never collides on the default registerer.
func initializeMetrics(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource, providers *OTelProviders) error {
	switch cfg.MetricExporter {
	case "prometheus":
		registry := promclient.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)

		providers.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
		providers.MeterProvider = mp
		providers.Meter = mp.Meter(InstrumentationName, metric.WithInstrumentationVersion(config.AppVersion))
		otel.SetMeterProvider(mp)
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}

	providers.Logger.DebugContext(ctx, "Metrics initialized",
		slog.String("exporter", cfg.MetricExporter))
	return nil
}

// Shutdown flushes and stops the providers.
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}

func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// DatasetMetrics holds the instruments recorded by dataset operations.
type DatasetMetrics struct {
	ValidationsTotal  metric.Int64Counter
	ValidationSeconds metric.Float64Histogram
	RowsScanned       metric.Int64Counter
	SummariesTotal    metric.Int64Counter
	RowExtractions    metric.Int64Counter
	GateRejections    metric.Int64Counter
}

// NewDatasetMetrics creates the dataset instruments on meter.
func NewDatasetMetrics(meter metric.Meter) (*DatasetMetrics, error) {
	validations, err := meter.Int64Counter(
		"dataset_validations_total",
		metric.WithDescription("Total number of validation passes by outcome"),
	)
	if err != nil {
		return nil, err
	}

	validationSeconds, err := meter.Float64Histogram(
		"dataset_validation_duration_seconds",
		metric.WithDescription("Validation pass duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	rows, err := meter.Int64Counter(
		"dataset_rows_scanned_total",
		metric.WithDescription("Total number of data rows read by validation passes"),
	)
	if err != nil {
		return nil, err
	}

	summaries, err := meter.Int64Counter(
		"dataset_summaries_total",
		metric.WithDescription("Total number of computed summaries"),
	)
	if err != nil {
		return nil, err
	}

	extractions, err := meter.Int64Counter(
		"dataset_row_extractions_total",
		metric.WithDescription("Total number of row extractions by format"),
	)
	if err != nil {
		return nil, err
	}

	rejections, err := meter.Int64Counter(
		"dataset_gate_rejections_total",
		metric.WithDescription("Requests refused because the dataset was not validated"),
	)
	if err != nil {
		return nil, err
	}

	return &DatasetMetrics{
		ValidationsTotal:  validations,
		ValidationSeconds: validationSeconds,
		RowsScanned:       rows,
		SummariesTotal:    summaries,
		RowExtractions:    extractions,
		GateRejections:    rejections,
	}, nil
}

// RecordValidation records one validation pass.
func (m *DatasetMetrics) RecordValidation(ctx context.Context, valid bool, reason string, rows int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.Bool("dataset.valid", valid),
		attribute.String("dataset.reason", reason),
	)
	m.ValidationsTotal.Add(ctx, 1, attrs)
	m.ValidationSeconds.Record(ctx, duration.Seconds(), attrs)
	m.RowsScanned.Add(ctx, int64(rows))
}

// RecordSummary records one successful summary.
func (m *DatasetMetrics) RecordSummary(ctx context.Context) {
	if m == nil {
		return
	}
	m.SummariesTotal.Add(ctx, 1)
}

// RecordExtraction records one row extraction attempt.
func (m *DatasetMetrics) RecordExtraction(ctx context.Context, format string, success bool) {
	if m == nil {
		return
	}
	m.RowExtractions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("dataset.format", format),
		attribute.Bool("success", success),
	))
}

// RecordGateRejection records a request refused by the validity gate.
func (m *DatasetMetrics) RecordGateRejection(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.GateRejections.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
