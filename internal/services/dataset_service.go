package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"fauxlizer/internal/config"
	"fauxlizer/internal/dataprocessing"
	"fauxlizer/internal/dataset"
	apperrors "fauxlizer/internal/errors"
	"fauxlizer/internal/exporter"
	"fauxlizer/internal/infrastructure"
	"fauxlizer/internal/validation"
	"fauxlizer/pkg/contracts/domain"
)

// DatasetService is the single entry point to validation, summaries and row
// extraction. All three share one registry of validation outcomes.
type DatasetService struct {
	registry    *dataset.Registry
	validator   *validation.Validator
	summarizer  *dataprocessing.Summarizer
	extractor   *exporter.Extractor
	tracer      trace.Tracer
	metrics     *infrastructure.DatasetMetrics
	concurrency int
	logger      *slog.Logger
}

// NewDatasetService wires the dataset components from cfg. A nil tracer
// uses the global provider; nil metrics disables recording.
func NewDatasetService(cfg config.DatasetConfig, tracer trace.Tracer, metrics *infrastructure.DatasetMetrics, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.InstrumentationName)
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = config.DefaultConcurrency
	}

	opts := dataset.Options{Comma: cfg.Comma(), Encoding: cfg.Encoding}
	registry := dataset.NewRegistry()

	return &DatasetService{
		registry:  registry,
		validator: validation.NewValidator(logger, registry, opts),
		summarizer: dataprocessing.NewSummarizer(logger, registry, dataprocessing.SummarizerConfig{
			Dataset:   opts,
			MatchMode: dataprocessing.MatchMode(cfg.CategoryMatch),
		}),
		extractor:   exporter.NewExtractor(logger, registry, opts),
		tracer:      tracer,
		metrics:     metrics,
		concurrency: concurrency,
		logger:      infrastructure.WithComponent(logger, "dataset_service"),
	}
}

// Validate runs a validation pass over path and caches the verdict.
func (s *DatasetService) Validate(ctx context.Context, path string) domain.ValidationOutcome {
	ctx, span := s.tracer.Start(ctx, "dataset.validate",
		trace.WithAttributes(attribute.String("dataset.path", path)))
	defer span.End()

	start := time.Now()
	outcome := s.validator.Validate(ctx, path)

	span.SetAttributes(
		attribute.Bool("dataset.valid", outcome.Valid),
		attribute.Int("dataset.rows_read", outcome.RowsRead),
	)
	if !outcome.Valid {
		span.SetAttributes(
			attribute.String("dataset.reason", string(outcome.Reason)),
			attribute.Int("dataset.row", outcome.Row),
		)
	}
	s.metrics.RecordValidation(ctx, outcome.Valid, string(outcome.Reason), outcome.RowsRead, time.Since(start))
	return outcome
}

// ValidateAll validates paths concurrently and returns outcomes in input
// order. The only error is cancellation of ctx.
func (s *DatasetService) ValidateAll(ctx context.Context, paths []string) ([]domain.ValidationOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.validate_all",
		trace.WithAttributes(attribute.Int("dataset.count", len(paths))))
	defer span.End()

	outcomes := make([]domain.ValidationOutcome, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = s.Validate(gctx, path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	valid := 0
	for _, o := range outcomes {
		if o.Valid {
			valid++
		}
	}
	s.logger.InfoContext(ctx, "batch validation complete",
		slog.Int("files", len(paths)),
		slog.Int("valid", valid))
	return outcomes, nil
}

// Summarize returns aggregate statistics for a validated path.
func (s *DatasetService) Summarize(ctx context.Context, path string) (*domain.Summary, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.summarize",
		trace.WithAttributes(attribute.String("dataset.path", path)))
	defer span.End()

	summary, err := s.summarizer.Summarize(ctx, path)
	if err != nil {
		s.recordFailure(ctx, span, "summarize", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("dataset.total_rows", summary.TotalRows))
	s.metrics.RecordSummary(ctx)
	return summary, nil
}

// GetRow extracts one data row of a validated path in the given format.
func (s *DatasetService) GetRow(ctx context.Context, path string, index int, format string) (*exporter.Export, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.get_row",
		trace.WithAttributes(
			attribute.String("dataset.path", path),
			attribute.Int("dataset.index", index),
			attribute.String("dataset.format", format),
		))
	defer span.End()

	export, err := s.extractor.GetRow(ctx, path, index, format)
	if err != nil {
		s.recordFailure(ctx, span, "get_row", err)
		s.metrics.RecordExtraction(ctx, format, false)
		return nil, err
	}

	s.metrics.RecordExtraction(ctx, string(export.Format), true)
	return export, nil
}

// Outcome returns the cached verdict for path.
func (s *DatasetService) Outcome(path string) (domain.ValidationOutcome, bool) {
	return s.registry.Lookup(path)
}

// Outcomes returns every cached verdict ordered by path.
func (s *DatasetService) Outcomes() []domain.ValidationOutcome {
	return s.registry.Snapshot()
}

// recordFailure marks the span; expected refusals are not span errors.
func (s *DatasetService) recordFailure(ctx context.Context, span trace.Span, operation string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotValidated):
		s.metrics.RecordGateRejection(ctx, operation)
		span.SetAttributes(attribute.Bool("dataset.gate_rejected", true))
	case errors.Is(err, apperrors.ErrIndexOutOfRange), errors.Is(err, apperrors.ErrUnsupportedFormat):
		span.SetAttributes(attribute.String("dataset.refusal", err.Error()))
	default:
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "dataset operation failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
	}
}
