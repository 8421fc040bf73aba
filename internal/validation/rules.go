package validation

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"fauxlizer/pkg/contracts/domain"
)

// fieldRule converts a raw cell into the value its validator tag applies to.
type fieldRule struct {
	tag   string
	parse func(raw string) (any, error)
}

// fieldRules is the dispatch table from column name to rule. Columns are
// checked in domain.RequiredFields order.
var fieldRules = map[string]fieldRule{
	domain.FieldExperimentName: {tag: "required", parse: asText},
	domain.FieldSampleID:       {tag: "gt=0", parse: asInteger},
	domain.FieldFauxness:       {tag: "gte=0,lte=1", parse: asFloat},
	domain.FieldCategoryGuess:  {tag: "oneof=real fake ambiguous", parse: asText},
}

func asText(raw string) (any, error) {
	return raw, nil
}

// asInteger accepts any base-10 integer. Positive values beyond int64 are
// clamped so they still satisfy the positivity rule.
func asInteger(raw string) (any, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && n == math.MaxInt64 {
			return n, nil
		}
		return nil, err
	}
	return n, nil
}

// errHexFloat rejects the hexadecimal form strconv accepts but decimal
// input does not allow.
var errHexFloat = errors.New("hexadecimal floats are not accepted")

// asFloat accepts decimal and exponent notation only.
func asFloat(raw string) (any, error) {
	s := strings.TrimSpace(raw)
	digits := strings.TrimLeft(s, "+-")
	if len(digits) >= 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return nil, errHexFloat
	}
	return strconv.ParseFloat(s, 64)
}

// checkField applies the rule registered for field to raw.
func checkField(v *validator.Validate, field, raw string) error {
	rule, ok := fieldRules[field]
	if !ok {
		return nil
	}
	value, err := rule.parse(raw)
	if err != nil {
		return err
	}
	return v.Var(value, rule.tag)
}
