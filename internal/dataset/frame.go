package dataset

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	apperrors "fauxlizer/internal/errors"
	"fauxlizer/pkg/contracts/domain"
)

// Frame is a fully loaded dataset held column-addressable in memory.
type Frame struct {
	Path   string
	Header []string
	Rows   [][]string

	index map[string]int
}

// Load reads every record of path into a Frame.
func Load(ctx context.Context, path string, opts Options) (*Frame, error) {
	r, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	f := &Frame{Path: path, Header: r.Header(), index: r.index}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		f.Rows = append(f.Rows, rec.Values)
	}
	return f, nil
}

// Len returns the number of data rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Column returns the values of the named column in row order.
func (f *Frame) Column(name string) ([]string, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, apperrors.NewMissingColumnError(name)
	}
	col := make([]string, len(f.Rows))
	for r, values := range f.Rows {
		col[r] = values[i]
	}
	return col, nil
}

// Float64Column parses the named column as floating point numbers.
func (f *Frame) Float64Column(name string) ([]float64, error) {
	col, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(col))
	for i, v := range col {
		x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, apperrors.NewParsingError("non-numeric "+name, err).
				WithContext("row", i+1).
				WithContext("value", v)
		}
		out[i] = x
	}
	return out, nil
}

// Row returns the i-th (0-based) data row.
func (f *Frame) Row(i int) (domain.Row, error) {
	if i < 0 || i >= len(f.Rows) {
		return domain.Row{}, apperrors.NewIndexOutOfRangeError(f.Path, i, len(f.Rows))
	}
	return domain.NewRow(f.Header, f.Rows[i]), nil
}

// RowAt streams path and returns the data row at the 0-based index, stopping
// as soon as it is reached.
func RowAt(ctx context.Context, path string, opts Options, index int) (domain.Row, error) {
	if index < 0 {
		return domain.Row{}, apperrors.NewIndexOutOfRangeError(path, index, 0)
	}

	r, err := Open(path, opts)
	if err != nil {
		return domain.Row{}, err
	}
	defer r.Close()

	for {
		if err := ctx.Err(); err != nil {
			return domain.Row{}, err
		}
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return domain.Row{}, apperrors.NewIndexOutOfRangeError(path, index, r.Count())
		}
		if err != nil {
			return domain.Row{}, err
		}
		if rec.Number-1 == index {
			return rec.Row(), nil
		}
	}
}
