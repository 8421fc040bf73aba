package exporter

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fauxlizer/internal/dataset"
	apperrors "fauxlizer/internal/errors"
	"fauxlizer/internal/shared/testutil"
	"fauxlizer/pkg/contracts/domain"
)

func newValidatedExtractor(t *testing.T, rows ...string) (*Extractor, string) {
	t.Helper()
	path := testutil.WriteFauxDataset(t, rows...)
	reg := dataset.NewRegistry()
	reg.Store(domain.Valid(path))
	logger, _ := testutil.NewTestLogger(t)
	return NewExtractor(logger, reg, dataset.DefaultOptions()), path
}

func TestExtractor_JSON(t *testing.T) {
	e, path := newValidatedExtractor(t, testutil.TwoRowDataset...)

	got, err := e.GetRow(context.Background(), path, 0, "json")
	require.NoError(t, err)

	assert.Equal(t, FormatJSON, got.Format)
	assert.Equal(t, "application/json", got.ContentType)
	assert.Equal(t,
		`{"experiment_name":"e1","sample_id":"1","fauxness":"0.5","category_guess":"real"}`,
		string(got.Data))
}

func TestExtractor_CSV(t *testing.T) {
	e, path := newValidatedExtractor(t, testutil.TwoRowDataset...)

	got, err := e.GetRow(context.Background(), path, 1, "csv")
	require.NoError(t, err)

	assert.Equal(t, testutil.FauxHeader+"\ne2,2,0.9,fake\n", string(got.Data))
}

func TestExtractor_Native(t *testing.T) {
	e, path := newValidatedExtractor(t, testutil.TwoRowDataset...)

	got, err := e.GetRow(context.Background(), path, 0, "native")
	require.NoError(t, err)

	want := domain.Row{Cells: []domain.Cell{
		{Name: "experiment_name", Value: "e1"},
		{Name: "sample_id", Value: "1"},
		{Name: "fauxness", Value: "0.5"},
		{Name: "category_guess", Value: "real"},
	}}
	if diff := cmp.Diff(want, got.Row); diff != "" {
		t.Errorf("native row mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, got.Data)
}

func TestExtractor_XLSX(t *testing.T) {
	e, path := newValidatedExtractor(t, testutil.TwoRowDataset...)

	got, err := e.GetRow(context.Background(), path, 1, "xlsx")
	require.NoError(t, err)
	require.NotEmpty(t, got.Data)

	wb, err := excelize.OpenReader(bytes.NewReader(got.Data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(xlsxSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"experiment_name", "sample_id", "fauxness", "category_guess"},
		{"e2", "2", "0.9", "fake"},
	}, rows)
}

func TestExtractor_PreservesFileColumnOrder(t *testing.T) {
	path := testutil.WriteDataset(t, t.TempDir(), "data.faux",
		"category_guess,note,fauxness,sample_id,experiment_name",
		"fake,hello,0.9,2,e2")
	reg := dataset.NewRegistry()
	reg.Store(domain.Valid(path))
	e := NewExtractor(nil, reg, dataset.DefaultOptions())

	got, err := e.GetRow(context.Background(), path, 0, "json")
	require.NoError(t, err)
	assert.Equal(t,
		`{"category_guess":"fake","note":"hello","fauxness":"0.9","sample_id":"2","experiment_name":"e2"}`,
		string(got.Data))

	got, err = e.GetRow(context.Background(), path, 0, "csv")
	require.NoError(t, err)
	assert.Equal(t, "category_guess,note,fauxness,sample_id,experiment_name\nfake,hello,0.9,2,e2\n", string(got.Data))
}

func TestExtractor_Errors(t *testing.T) {
	e, path := newValidatedExtractor(t, testutil.TwoRowDataset...)
	unvalidated := testutil.WriteFauxDataset(t, testutil.TwoRowDataset...)

	tests := []struct {
		name    string
		path    string
		index   int
		format  string
		wantErr error
	}{
		{name: "index past the end", path: path, index: 5, format: "json", wantErr: apperrors.ErrIndexOutOfRange},
		{name: "index equal to row count", path: path, index: 2, format: "csv", wantErr: apperrors.ErrIndexOutOfRange},
		{name: "negative index", path: path, index: -1, format: "json", wantErr: apperrors.ErrIndexOutOfRange},
		{name: "unknown format", path: path, index: 0, format: "yaml", wantErr: apperrors.ErrUnsupportedFormat},
		{name: "not validated", path: unvalidated, index: 0, format: "json", wantErr: apperrors.ErrNotValidated},
		{name: "gate checked before format", path: unvalidated, index: 0, format: "yaml", wantErr: apperrors.ErrNotValidated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.GetRow(context.Background(), tt.path, tt.index, tt.format)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtractor_RereadsFileEachCall(t *testing.T) {
	e, path := newValidatedExtractor(t, testutil.TwoRowDataset...)
	ctx := context.Background()

	first, err := e.GetRow(ctx, path, 0, "native")
	require.NoError(t, err)

	// Overwrite without revalidating; the cached verdict still opens the gate.
	testutil.WriteRaw(t, filepath.Dir(path), "data.faux", []byte(testutil.FauxHeader+"\nchanged,9,0.1,ambiguous\n"))

	second, err := e.GetRow(ctx, path, 0, "native")
	require.NoError(t, err)

	v1, _ := first.Row.Get("experiment_name")
	v2, _ := second.Row.Get("experiment_name")
	assert.Equal(t, "e1", v1)
	assert.Equal(t, "changed", v2)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "csv", want: FormatCSV},
		{input: "JSON", want: FormatJSON},
		{input: " native ", want: FormatNative},
		{input: "python", want: FormatNative},
		{input: "xlsx", want: FormatXLSX},
		{input: "excel", want: FormatXLSX},
		{input: "", wantErr: true},
		{input: "parquet", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, f := range Formats() {
		_, ok := encoders[f]
		assert.True(t, ok, "format %s has an encoder", f)
	}
}
