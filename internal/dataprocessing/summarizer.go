package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"fauxlizer/internal/dataset"
	"fauxlizer/pkg/contracts/domain"
)

// MatchMode selects how category_guess values are counted.
type MatchMode string

const (
	// MatchExact counts whole-field, case-sensitive equality.
	MatchExact MatchMode = "exact"
	// MatchPrefix counts values that start with the category name, the
	// behavior of earlier releases.
	MatchPrefix MatchMode = "prefix"
)

// Gate reports whether a path may be queried.
type Gate interface {
	Require(path string) error
}

// Summarizer computes aggregate statistics over validated datasets.
type Summarizer struct {
	logger *slog.Logger
	gate   Gate
	opts   dataset.Options
	match  MatchMode
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	Dataset   dataset.Options
	MatchMode MatchMode
}

// DefaultSummarizerConfig returns comma-separated UTF-8 with exact matching.
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{
		Dataset:   dataset.DefaultOptions(),
		MatchMode: MatchExact,
	}
}

// NewSummarizer creates a summarizer guarded by gate.
func NewSummarizer(logger *slog.Logger, gate Gate, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MatchMode == "" {
		config.MatchMode = MatchExact
	}
	return &Summarizer{
		logger: logger.With(slog.String("component", "summarizer")),
		gate:   gate,
		opts:   config.Dataset,
		match:  config.MatchMode,
	}
}

// Summarize re-reads path and aggregates it. It returns ErrNotValidated,
// without touching the file, unless the latest verdict for path is valid.
func (s *Summarizer) Summarize(ctx context.Context, path string) (*domain.Summary, error) {
	if err := s.gate.Require(path); err != nil {
		s.logger.DebugContext(ctx, "summary refused", slog.String("path", path))
		return nil, err
	}

	frame, err := dataset.Load(ctx, path, s.opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	fauxness, err := frame.Float64Column(domain.FieldFauxness)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", path, err)
	}
	categories, err := frame.Column(domain.FieldCategoryGuess)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", path, err)
	}

	summary := &domain.Summary{
		Filename:      path,
		TotalRows:     frame.Len(),
		Fauxness:      ComputeFauxnessStats(fauxness),
		CategoryGuess: CountCategories(categories, s.match),
	}

	s.logger.InfoContext(ctx, "summary computed",
		slog.String("path", path),
		slog.Int("total_rows", summary.TotalRows))

	return summary, nil
}

// ComputeFauxnessStats returns min, max, mean and the sample standard
// deviation (n-1 divisor). With fewer than two values the deviation is NaN;
// with none every statistic is NaN.
func ComputeFauxnessStats(values []float64) domain.FauxnessStats {
	nan := domain.Stat(math.NaN())
	if len(values) == 0 {
		return domain.FauxnessStats{Min: nan, Max: nan, Mean: nan, Std: nan}
	}

	lo, hi, sum := values[0], values[0], 0.0
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		sum += v
	}
	mean := sum / float64(len(values))

	std := math.NaN()
	if len(values) > 1 {
		var sq float64
		for _, v := range values {
			d := v - mean
			sq += d * d
		}
		std = math.Sqrt(sq / float64(len(values)-1))
	}

	return domain.FauxnessStats{
		Min:  domain.Stat(lo),
		Max:  domain.Stat(hi),
		Mean: domain.Stat(mean),
		Std:  domain.Stat(std),
	}
}

// CountCategories tallies values per category in the given mode.
func CountCategories(values []string, mode MatchMode) domain.CategoryCounts {
	matches := func(value string, c domain.Category) bool {
		if mode == MatchPrefix {
			return strings.HasPrefix(value, string(c))
		}
		return value == string(c)
	}

	var counts domain.CategoryCounts
	for _, v := range values {
		if matches(v, domain.CategoryReal) {
			counts.Real++
		}
		if matches(v, domain.CategoryFake) {
			counts.Fake++
		}
		if matches(v, domain.CategoryAmbiguous) {
			counts.Ambiguous++
		}
	}
	return counts
}
