package domain

import (
	"bytes"
	"encoding/json"
)

// Column names of the fauxness record. The header of every input file must
// name all four; additional columns are carried along but never validated.
const (
	FieldExperimentName = "experiment_name"
	FieldSampleID       = "sample_id"
	FieldFauxness       = "fauxness"
	FieldCategoryGuess  = "category_guess"
)

// RequiredFields lists the record columns in validation order.
var RequiredFields = []string{
	FieldExperimentName,
	FieldSampleID,
	FieldFauxness,
	FieldCategoryGuess,
}

// Category is the enumerated value of the category_guess column
type Category string

const (
	CategoryReal      Category = "real"
	CategoryFake      Category = "fake"
	CategoryAmbiguous Category = "ambiguous"
)

// Categories returns the category values in reporting order.
func Categories() []Category {
	return []Category{CategoryReal, CategoryFake, CategoryAmbiguous}
}

// IsValid reports whether c is one of the known categories (case-sensitive).
func (c Category) IsValid() bool {
	switch c {
	case CategoryReal, CategoryFake, CategoryAmbiguous:
		return true
	}
	return false
}

// Cell is a single column/value pair of a Row.
type Cell struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Row is one data row as an ordered mapping from column name to text value.
// Order follows the column order of the source file header.
type Row struct {
	Cells []Cell
}

// NewRow builds a Row by zipping header and values. Both slices must have the
// same length.
func NewRow(header, values []string) Row {
	cells := make([]Cell, len(header))
	for i, name := range header {
		cells[i] = Cell{Name: name, Value: values[i]}
	}
	return Row{Cells: cells}
}

// Get returns the value stored under name.
func (r Row) Get(name string) (string, bool) {
	for _, c := range r.Cells {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// Keys returns the column names in storage order.
func (r Row) Keys() []string {
	keys := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		keys[i] = c.Name
	}
	return keys
}

// Values returns the cell values in storage order.
func (r Row) Values() []string {
	values := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		values[i] = c.Value
	}
	return values
}

// Len returns the number of cells.
func (r Row) Len() int {
	return len(r.Cells)
}

// MarshalJSON renders the row as a JSON object, keeping column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.Cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
