package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"fauxlizer/internal/dataset"
	"fauxlizer/pkg/contracts/domain"
)

// Gate reports whether a path may be queried.
type Gate interface {
	Require(path string) error
}

// Export is one extracted row. Row is always set; Data holds the serialized
// form and is nil for FormatNative.
type Export struct {
	Format      Format
	ContentType string
	Row         domain.Row
	Data        []byte
}

type encoder struct {
	contentType string
	encode      func(row domain.Row) ([]byte, error)
}

// encoders is the dispatch table from format to serializer.
var encoders = map[Format]encoder{
	FormatCSV:    {contentType: "text/csv; charset=utf-8", encode: encodeCSV},
	FormatJSON:   {contentType: "application/json", encode: encodeJSON},
	FormatNative: {contentType: "", encode: func(domain.Row) ([]byte, error) { return nil, nil }},
	FormatXLSX:   {contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", encode: encodeXLSX},
}

// Extractor returns single rows of validated datasets.
type Extractor struct {
	logger *slog.Logger
	gate   Gate
	opts   dataset.Options
}

// NewExtractor creates an extractor guarded by gate.
func NewExtractor(logger *slog.Logger, gate Gate, opts dataset.Options) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		logger: logger.With(slog.String("component", "extractor")),
		gate:   gate,
		opts:   opts,
	}
}

// GetRow re-reads path and returns the data row at the 0-based index in the
// requested format. The validity gate is checked first, then the format, so
// neither failure touches the file.
func (e *Extractor) GetRow(ctx context.Context, path string, index int, format string) (*Export, error) {
	if err := e.gate.Require(path); err != nil {
		return nil, err
	}

	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	row, err := dataset.RowAt(ctx, path, e.opts, index)
	if err != nil {
		return nil, err
	}

	enc := encoders[f]
	data, err := enc.encode(row)
	if err != nil {
		return nil, fmt.Errorf("encode row %d as %s: %w", index, f, err)
	}

	e.logger.DebugContext(ctx, "row extracted",
		slog.String("path", path),
		slog.Int("index", index),
		slog.String("format", string(f)))

	return &Export{
		Format:      f,
		ContentType: enc.contentType,
		Row:         row,
		Data:        data,
	}, nil
}

func encodeCSV(row domain.Row) ([]byte, error) {
	var buf bytes.Buffer
	err := NewCSVWriter().WriteCSV(&buf, WriteOptions{
		Headers: row.Keys(),
		Records: [][]string{row.Values()},
	})
	return buf.Bytes(), err
}

func encodeJSON(row domain.Row) ([]byte, error) {
	return json.Marshal(row)
}

// xlsxSheet is the name of the single worksheet in an xlsx export.
const xlsxSheet = "row"

func encodeXLSX(row domain.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, 0, row.Len())
	values := make([]interface{}, 0, row.Len())
	for _, c := range row.Cells {
		header = append(header, c.Name)
		values = append(values, c.Value)
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(xlsxSheet, "A2", &values); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
