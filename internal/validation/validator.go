package validation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"fauxlizer/internal/dataset"
	apperrors "fauxlizer/internal/errors"
	"fauxlizer/pkg/contracts/domain"
)

// Validator checks dataset files against the fixed four-column schema and
// records each verdict in a Registry.
type Validator struct {
	logger   *slog.Logger
	registry *dataset.Registry
	opts     dataset.Options
	validate *validator.Validate
}

// NewValidator creates a validator. A nil registry gets a private one.
func NewValidator(logger *slog.Logger, registry *dataset.Registry, opts dataset.Options) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = dataset.NewRegistry()
	}
	return &Validator{
		logger:   logger.With(slog.String("component", "validator")),
		registry: registry,
		opts:     opts,
		validate: validator.New(),
	}
}

// Registry returns the registry the validator writes to.
func (v *Validator) Registry() *dataset.Registry {
	return v.registry
}

// Validate runs one fail-fast pass over path. It never returns an error:
// every failure, structural or field level, becomes an invalid outcome. The
// outcome is cached against path unless the pass was cancelled.
func (v *Validator) Validate(ctx context.Context, path string) domain.ValidationOutcome {
	start := time.Now()
	outcome, cancelled := v.run(ctx, path)

	attrs := []any{
		slog.String("path", path),
		slog.Bool("valid", outcome.Valid),
		slog.Int("rows_read", outcome.RowsRead),
		slog.Duration("duration", time.Since(start)),
	}
	if !outcome.Valid {
		attrs = append(attrs,
			slog.String("reason", string(outcome.Reason)),
			slog.Int("row", outcome.Row),
			slog.String("value", outcome.Value))
	}

	if cancelled {
		v.logger.WarnContext(ctx, "validation cancelled", attrs...)
		return outcome
	}

	v.registry.Store(outcome)
	v.logger.InfoContext(ctx, "validation complete", attrs...)
	return outcome
}

func (v *Validator) run(ctx context.Context, path string) (domain.ValidationOutcome, bool) {
	r, err := dataset.Open(path, v.opts)
	if err != nil {
		return domain.InvalidStructure(path, err), false
	}
	defer r.Close()

	for {
		if err := ctx.Err(); err != nil {
			outcome := domain.InvalidStructure(path, err)
			outcome.RowsRead = r.Count()
			return outcome, true
		}

		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			outcome := domain.InvalidStructure(path, err)
			outcome.RowsRead = r.Count()
			return outcome, false
		}

		if fieldErr := v.CheckRecord(rec); fieldErr != nil {
			outcome := domain.InvalidField(path, fieldErr.Field, fieldErr.Value, fieldErr.Row)
			outcome.Detail = fieldErr.Cause.Error()
			outcome.RowsRead = r.Count()
			return outcome, false
		}
	}

	outcome := domain.Valid(path)
	outcome.RowsRead = r.Count()
	return outcome, false
}

// CheckRecord validates the four required fields of rec in order and returns
// the first violation, or nil.
func (v *Validator) CheckRecord(rec dataset.Record) *apperrors.FieldValidationError {
	for _, field := range domain.RequiredFields {
		raw := rec.Field(field)
		if err := checkField(v.validate, field, raw); err != nil {
			return &apperrors.FieldValidationError{
				Field:  field,
				Value:  raw,
				Row:    rec.Number,
				Reason: string(domain.FieldReasons[field]),
				Cause:  err,
			}
		}
	}
	return nil
}
