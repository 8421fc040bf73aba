package domain

import "fmt"

// Reason identifies why a dataset failed validation.
type Reason string

const (
	ReasonNone                  Reason = ""
	ReasonStructuralRead        Reason = "StructuralReadError"
	ReasonExperimentNameInvalid Reason = "ExperimentNameInvalid"
	ReasonSampleIDInvalid       Reason = "SampleIdInvalid"
	ReasonFauxnessInvalid       Reason = "FauxnessInvalid"
	ReasonCategoryGuessInvalid  Reason = "CategoryGuessInvalid"
)

// FieldReasons maps each record column to the reason reported when it fails.
var FieldReasons = map[string]Reason{
	FieldExperimentName: ReasonExperimentNameInvalid,
	FieldSampleID:       ReasonSampleIDInvalid,
	FieldFauxness:       ReasonFauxnessInvalid,
	FieldCategoryGuess:  ReasonCategoryGuessInvalid,
}

// ValidationOutcome is the verdict of one validation pass over a file.
//
// A valid outcome has Valid set and every other field zero. An invalid outcome
// names the Reason; field failures also carry the offending Field, Value and
// the 1-based data Row (header excluded). Structural failures have Row 0 and
// keep the underlying error in Detail.
type ValidationOutcome struct {
	Path   string `json:"path"`
	Valid  bool   `json:"valid"`
	Reason Reason `json:"reason,omitempty"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	Row    int    `json:"row,omitempty"`
	Detail string `json:"detail,omitempty"`

	// RowsRead counts the data rows consumed before the verdict.
	RowsRead int `json:"rows_read"`
}

// Valid returns a passing outcome for path.
func Valid(path string) ValidationOutcome {
	return ValidationOutcome{Path: path, Valid: true}
}

// InvalidField returns a failing outcome for a field rule violation.
func InvalidField(path, field, value string, row int) ValidationOutcome {
	return ValidationOutcome{
		Path:   path,
		Reason: FieldReasons[field],
		Field:  field,
		Value:  value,
		Row:    row,
	}
}

// InvalidStructure returns a failing outcome for an I/O or format problem.
func InvalidStructure(path string, cause error) ValidationOutcome {
	o := ValidationOutcome{Path: path, Reason: ReasonStructuralRead}
	if cause != nil {
		o.Detail = cause.Error()
	}
	return o
}

// IsStructural reports whether the failure has no row location.
func (o ValidationOutcome) IsStructural() bool {
	return !o.Valid && o.Reason == ReasonStructuralRead
}

// String renders the outcome as a single human-readable line.
func (o ValidationOutcome) String() string {
	switch {
	case o.Valid:
		return fmt.Sprintf("File %s is valid", o.Path)
	case o.IsStructural():
		return fmt.Sprintf("File %s not valid: %s: %s", o.Path, o.Reason, o.Detail)
	default:
		return fmt.Sprintf("File %s not valid: %s (value %q, row %d)", o.Path, o.Reason, o.Value, o.Row)
	}
}
