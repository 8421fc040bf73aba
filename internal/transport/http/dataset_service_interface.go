package http

import (
	"context"

	"fauxlizer/internal/exporter"
	"fauxlizer/pkg/contracts/domain"
)

// DatasetServiceInterface defines the dataset operations exposed over HTTP
type DatasetServiceInterface interface {
	Validate(ctx context.Context, path string) domain.ValidationOutcome
	ValidateAll(ctx context.Context, paths []string) ([]domain.ValidationOutcome, error)
	Summarize(ctx context.Context, path string) (*domain.Summary, error)
	GetRow(ctx context.Context, path string, index int, format string) (*exporter.Export, error)
	Outcomes() []domain.ValidationOutcome
}
