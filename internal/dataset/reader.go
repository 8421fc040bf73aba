package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "fauxlizer/internal/errors"
	"fauxlizer/pkg/contracts/domain"
)

// Options control how a file is parsed.
type Options struct {
	Comma    rune
	Encoding string
}

// DefaultOptions returns comma-separated UTF-8.
func DefaultOptions() Options {
	return Options{Comma: ',', Encoding: "utf-8"}
}

// Record is one data row. Number is 1-based and excludes the header.
type Record struct {
	Number int
	Values []string

	header []string
	index  map[string]int
}

// Field returns the value of the named column, or "" if the column is absent.
func (rec Record) Field(name string) string {
	i, ok := rec.index[name]
	if !ok {
		return ""
	}
	return rec.Values[i]
}

// Row returns the record as an ordered mapping in header order. Values past
// the header width are not included.
func (rec Record) Row() domain.Row {
	return domain.NewRow(rec.header, rec.Values)
}

// Reader streams records from a dataset file.
type Reader struct {
	path   string
	file   *os.File
	csv    *csv.Reader
	header []string
	index  map[string]int
	count  int
}

// Open opens path, reads the header and checks that every required column is
// present. The caller must Close the returned Reader.
func Open(path string, opts Options) (*Reader, error) {
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, apperrors.NewStructuralError("cannot decode "+path, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStructuralError("cannot open "+path, err).WithContext("path", path)
	}

	cr := csv.NewReader(lossyReader(file, enc))
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	// Width is checked per row in Next: extra values are tolerated, missing
	// ones are not. Stray quotes inside unquoted fields are kept as text.
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		file.Close()
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewStructuralError(path+" has no header row", err).WithContext("path", path)
		}
		return nil, apperrors.NewStructuralError("cannot read header of "+path, err).WithContext("path", path)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		header[i] = name
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, name := range domain.RequiredFields {
		if _, ok := index[name]; !ok {
			file.Close()
			return nil, apperrors.NewMissingColumnError(name).WithContext("path", path)
		}
	}

	return &Reader{
		path:   path,
		file:   file,
		csv:    cr,
		header: header,
		index:  index,
	}, nil
}

// Header returns the column names in file order.
func (r *Reader) Header() []string {
	return r.header
}

// Count returns the number of records read so far.
func (r *Reader) Count() int {
	return r.count
}

// Next returns the next record, or io.EOF once the file is exhausted.
func (r *Reader) Next() (Record, error) {
	values, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, apperrors.NewStructuralError(fmt.Sprintf("malformed record %d in %s", r.count+1, r.path), err).
			WithContext("path", r.path)
	}
	if len(values) < len(r.header) {
		return Record{}, apperrors.NewStructuralError(
			fmt.Sprintf("record %d in %s has %d of %d columns", r.count+1, r.path, len(values), len(r.header)), nil).
			WithContext("path", r.path)
	}
	r.count++
	return Record{
		Number: r.count,
		Values: values,
		header: r.header,
		index:  r.index,
	}, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
