package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"fauxlizer/internal/config"
	apperrors "fauxlizer/internal/errors"
	"fauxlizer/internal/exporter"
	"fauxlizer/internal/infrastructure"
	"fauxlizer/internal/shared/testutil"
	"fauxlizer/pkg/contracts/domain"
)

type serviceHarness struct {
	svc    *DatasetService
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	logs   *testutil.BufferedSlogHandler
}

func newHarness(t *testing.T, mutate func(*config.DatasetConfig)) *serviceHarness {
	t.Helper()

	cfg := config.Default().Dataset
	if mutate != nil {
		mutate(&cfg)
	}

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := infrastructure.NewDatasetMetrics(mp.Meter("test"))
	require.NoError(t, err)

	logger, logs := testutil.NewTestLogger(t)
	return &serviceHarness{
		svc:    NewDatasetService(cfg, tp.Tracer("test"), metrics, logger),
		spans:  spans,
		reader: reader,
		logs:   logs,
	}
}

func (h *serviceHarness) spanNames() []string {
	var names []string
	for _, s := range h.spans.Ended() {
		names = append(names, s.Name())
	}
	return names
}

func (h *serviceHarness) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestDatasetService_EndToEnd(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	path := testutil.WriteFauxDataset(t, testutil.TwoRowDataset...)

	_, err := h.svc.Summarize(ctx, path)
	require.ErrorIs(t, err, apperrors.ErrNotValidated)

	outcome := h.svc.Validate(ctx, path)
	require.True(t, outcome.Valid)

	summary, err := h.svc.Summarize(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalRows)
	assert.Equal(t, domain.CategoryCounts{Real: 1, Fake: 1}, summary.CategoryGuess)

	row, err := h.svc.GetRow(ctx, path, 0, "json")
	require.NoError(t, err)
	assert.Equal(t, exporter.FormatJSON, row.Format)
	assert.JSONEq(t, `{"experiment_name":"e1","sample_id":"1","fauxness":"0.5","category_guess":"real"}`, string(row.Data))

	_, err = h.svc.GetRow(ctx, path, 5, "json")
	assert.ErrorIs(t, err, apperrors.ErrIndexOutOfRange)

	assert.Equal(t,
		[]string{"dataset.summarize", "dataset.validate", "dataset.summarize", "dataset.get_row", "dataset.get_row"},
		h.spanNames())

	assert.Equal(t, int64(1), h.counter(t, "dataset_validations_total"))
	assert.Equal(t, int64(2), h.counter(t, "dataset_rows_scanned_total"))
	assert.Equal(t, int64(1), h.counter(t, "dataset_summaries_total"))
	assert.Equal(t, int64(2), h.counter(t, "dataset_row_extractions_total"))
	assert.Equal(t, int64(1), h.counter(t, "dataset_gate_rejections_total"))

	got, ok := h.svc.Outcome(path)
	require.True(t, ok)
	assert.True(t, got.Valid)

	// refusals are expected outcomes, not failures
	testutil.AssertNoErrors(t, h.logs)
}

func TestDatasetService_InvalidClosesGate(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	dir := t.TempDir()
	path := testutil.WriteDataset(t, dir, "bad.faux", testutil.FauxHeader,
		"e1,1,0.5,real", "e2,2,0.5,fake", "e3,-5,0.5,real")

	outcome := h.svc.Validate(ctx, path)
	assert.Equal(t, domain.ReasonSampleIDInvalid, outcome.Reason)
	assert.Equal(t, 3, outcome.Row)

	_, err := h.svc.GetRow(ctx, path, 0, "csv")
	assert.ErrorIs(t, err, apperrors.ErrNotValidated)
	_, err = h.svc.Summarize(ctx, path)
	assert.ErrorIs(t, err, apperrors.ErrNotValidated)
}

func TestDatasetService_ValidateAll(t *testing.T) {
	h := newHarness(t, func(c *config.DatasetConfig) { c.Concurrency = 2 })
	dir := t.TempDir()

	paths := []string{
		testutil.WriteDataset(t, dir, "a.faux", testutil.FauxHeader, testutil.TwoRowDataset...),
		testutil.WriteDataset(t, dir, "b.faux", testutil.FauxHeader, "e1,1,0.5,AMBIGUous"),
		filepath.Join(dir, "missing.faux"),
		testutil.WriteDataset(t, dir, "d.faux", testutil.FauxHeader, ",1,0.5,real"),
		testutil.WriteDataset(t, dir, "e.faux", testutil.FauxHeader, "e1,1,0.0,fake"),
	}

	outcomes, err := h.svc.ValidateAll(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, outcomes, len(paths))

	for i, o := range outcomes {
		assert.Equal(t, paths[i], o.Path, "outcomes keep input order")
	}
	assert.True(t, outcomes[0].Valid)
	assert.Equal(t, domain.ReasonCategoryGuessInvalid, outcomes[1].Reason)
	assert.Equal(t, domain.ReasonStructuralRead, outcomes[2].Reason)
	assert.Equal(t, domain.ReasonExperimentNameInvalid, outcomes[3].Reason)
	assert.True(t, outcomes[4].Valid)

	assert.Len(t, h.svc.Outcomes(), len(paths))
	assert.Equal(t, int64(len(paths)), h.counter(t, "dataset_validations_total"))
}

func TestDatasetService_ValidateAllCancelled(t *testing.T) {
	h := newHarness(t, nil)
	path := testutil.WriteFauxDataset(t, testutil.TwoRowDataset...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := h.svc.ValidateAll(ctx, []string{path, path})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, outcomes)
}

func TestDatasetService_PrefixMatchingFromConfig(t *testing.T) {
	h := newHarness(t, func(c *config.DatasetConfig) { c.CategoryMatch = config.CategoryMatchPrefix })
	ctx := context.Background()
	path := testutil.WriteFauxDataset(t, "e1,1,0.5,real", "e2,2,0.6,fake", "e3,3,0.7,ambiguous")

	require.True(t, h.svc.Validate(ctx, path).Valid)
	summary, err := h.svc.Summarize(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryCounts{Real: 1, Fake: 1, Ambiguous: 1}, summary.CategoryGuess)
}

func TestDatasetService_CustomDelimiter(t *testing.T) {
	h := newHarness(t, func(c *config.DatasetConfig) { c.Delimiter = ";" })
	ctx := context.Background()
	path := testutil.WriteDataset(t, t.TempDir(), "semi.faux",
		"experiment_name;sample_id;fauxness;category_guess", "e1;1;0.5;real")

	require.True(t, h.svc.Validate(ctx, path).Valid)
	row, err := h.svc.GetRow(ctx, path, 0, "csv")
	require.NoError(t, err)
	assert.Equal(t, testutil.FauxHeader+"\ne1,1,0.5,real\n", string(row.Data))
}

func TestNewDatasetService_Defaults(t *testing.T) {
	svc := NewDatasetService(config.DatasetConfig{}, nil, nil, nil)
	assert.Equal(t, config.DefaultConcurrency, svc.concurrency)
	assert.NotNil(t, svc.tracer)

	path := testutil.WriteFauxDataset(t, testutil.TwoRowDataset...)
	assert.True(t, svc.Validate(context.Background(), path).Valid)
}
